package handler

import (
	"net/http"
	"testing"

	"github.com/clube/backend/internal/application/membership"
	"github.com/clube/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountMembership(env *testEnv) func(r gin.IRouter) {
	categories := NewCategoryHandler(membership.NewCategoryService(env.cats))
	affiliations := NewAffiliationHandler(membership.NewAffiliationService(env.affs))
	members := NewMemberHandler(membership.NewMemberService(env.members, env.cats, env.affs, env.dues, nil))
	dues := newDuesHandler(env)

	return func(r gin.IRouter) {
		r.GET("/categories", categories.List)
		r.POST("/categories", categories.Create)
		r.DELETE("/categories/:id", categories.Delete)
		r.POST("/affiliations", affiliations.Create)
		r.GET("/members", members.List)
		r.GET("/members/:id", members.GetByID)
		r.POST("/members", members.Create)
		r.PUT("/members/:id", members.Update)
		r.POST("/members/:id/status", members.ChangeStatus)
		r.DELETE("/members/:id", members.Delete)
		r.POST("/members/:id/dependents", members.AddDependent)
		r.DELETE("/members/:id/dependents/:dependentId", members.RemoveDependent)
		r.POST("/dues/generate", dues.Generate)
	}
}

func createCategory(t *testing.T, r http.Handler, name, fee string) membership.CategoryResponse {
	t.Helper()
	rec, resp := doJSON(t, r, http.MethodPost, "/categories", map[string]any{
		"name":        name,
		"monthly_fee": fee,
		"due_day":     10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[membership.CategoryResponse](t, resp)
}

func createMember(t *testing.T, r http.Handler, body map[string]any) membership.MemberResponse {
	t.Helper()
	rec, resp := doJSON(t, r, http.MethodPost, "/members", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[membership.MemberResponse](t, resp)
}

func TestMemberHandler_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	r := env.engine(env.tenant.ID, mountMembership(env))

	category := createCategory(t, r, "Titular", "180.00")
	assert.Equal(t, "180", category.MonthlyFee.String())

	member := createMember(t, r, map[string]any{
		"registration_number": "0001",
		"name":                "Fernanda Alves",
		"cpf":                 "529.982.247-25",
		"category_id":         category.ID,
	})
	assert.Equal(t, "ACTIVE", member.Status)
	assert.Empty(t, member.Dependents)

	rec, resp := doJSON(t, r, http.MethodPost, "/members/"+member.ID.String()+"/dependents", map[string]any{
		"name":         "Gabriel Alves",
		"relationship": "CHILD",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	withDependent := decodeData[membership.MemberResponse](t, resp)
	require.Len(t, withDependent.Dependents, 1)

	dependentPath := "/members/" + member.ID.String() + "/dependents/" + withDependent.Dependents[0].ID.String()
	rec, resp = doJSON(t, r, http.MethodDelete, dependentPath, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, resp = doJSON(t, r, http.MethodPost, "/members/"+member.ID.String()+"/status", map[string]any{
		"status": "SUSPENDED",
		"reason": "pedido do associado",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	suspended := decodeData[membership.MemberResponse](t, resp)
	assert.Equal(t, "SUSPENDED", suspended.Status)
	assert.Equal(t, "pedido do associado", suspended.StatusReason)
}

func TestMemberHandler_CreateRejectsDuplicateRegistration(t *testing.T) {
	env := newTestEnv(t)
	r := env.engine(env.tenant.ID, mountMembership(env))
	category := createCategory(t, r, "Titular", "100.00")

	createMember(t, r, map[string]any{
		"registration_number": "0042",
		"name":                "Helena Castro",
		"cpf":                 "529.982.247-25",
		"category_id":         category.ID,
	})

	rec, resp := doJSON(t, r, http.MethodPost, "/members", map[string]any{
		"registration_number": "0042",
		"name":                "Igor Castro",
		"cpf":                 "111.444.777-35",
		"category_id":         category.ID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, dto.ErrCodeAlreadyExists, resp.Error.Code)
}

func TestMemberHandler_InvalidStatusTransition(t *testing.T) {
	env := newTestEnv(t)
	r := env.engine(env.tenant.ID, mountMembership(env))
	category := createCategory(t, r, "Titular", "100.00")
	member := createMember(t, r, map[string]any{
		"registration_number": "0100",
		"name":                "Joana Reis",
		"cpf":                 "529.982.247-25",
		"category_id":         category.ID,
	})
	path := "/members/" + member.ID.String() + "/status"

	rec, _ := doJSON(t, r, http.MethodPost, path, map[string]any{"status": "CANCELED"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := doJSON(t, r, http.MethodPost, path, map[string]any{"status": "ACTIVE"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)

	rec, _ = doJSON(t, r, http.MethodPost, path, map[string]any{"status": "RETIRED"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMemberHandler_DeleteBilledMember(t *testing.T) {
	env := newTestEnv(t)
	r := env.engine(env.tenant.ID, mountMembership(env))
	category := createCategory(t, r, "Titular", "100.00")
	billed := createMember(t, r, map[string]any{
		"registration_number": "0200",
		"name":                "Lucas Moura",
		"cpf":                 "529.982.247-25",
		"category_id":         category.ID,
	})

	_, resp := doJSON(t, r, http.MethodPost, "/dues/generate", map[string]any{"months": 1})
	require.True(t, resp.Success)

	rec, resp := doJSON(t, r, http.MethodDelete, "/members/"+billed.ID.String(), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)

	// the category is still referenced by the member
	rec, _ = doJSON(t, r, http.MethodDelete, "/categories/"+category.ID.String(), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	fresh := createMember(t, r, map[string]any{
		"registration_number": "0201",
		"name":                "Marina Moura",
		"cpf":                 "111.444.777-35",
		"category_id":         category.ID,
	})
	rec, _ = doJSON(t, r, http.MethodDelete, "/members/"+fresh.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMemberHandler_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	r := env.engine(env.tenant.ID, mountMembership(env))
	titular := createCategory(t, r, "Titular", "100.00")
	remido := createCategory(t, r, "Remido", "0")

	createMember(t, r, map[string]any{
		"registration_number": "0300", "name": "Nina Prates", "cpf": "529.982.247-25", "category_id": titular.ID,
	})
	createMember(t, r, map[string]any{
		"registration_number": "0301", "name": "Otavio Prates", "cpf": "111.444.777-35", "category_id": remido.ID,
	})

	rec, resp := doJSON(t, r, http.MethodGet, "/members?category_id="+remido.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decodeData[[]membership.MemberResponse](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "Otavio Prates", list[0].Name)

	rec, _ = doJSON(t, r, http.MethodGet, "/members?affiliation_id=bad", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
