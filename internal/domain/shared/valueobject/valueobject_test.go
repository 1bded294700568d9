package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCPF(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "formatted", input: "529.982.247-25"},
		{name: "digits only", input: "52998224725"},
		{name: "wrong check digit", input: "529.982.247-26", wantErr: true},
		{name: "repeated digits", input: "111.111.111-11", wantErr: true},
		{name: "too short", input: "5299822472", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewCPF(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "52998224725", doc.Digits())
			assert.Equal(t, "529.982.247-25", doc.String())
			assert.Equal(t, DocumentCPF, doc.Kind())
		})
	}
}

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument("11.222.333/0001-81")
	require.NoError(t, err)
	assert.Equal(t, DocumentCNPJ, doc.Kind())
	assert.Equal(t, "11.222.333/0001-81", doc.String())

	_, err = ParseDocument("11.222.333/0001-82")
	assert.Error(t, err)

	_, err = ParseDocument("123")
	assert.Error(t, err)
}

func TestNewAddress(t *testing.T) {
	t.Run("formats a full address", func(t *testing.T) {
		addr, err := NewAddress("Rua das Palmeiras", "Campinas", "sp",
			WithNumber("120"), WithDistrict("Centro"), WithPostalCode("13010-050"))
		require.NoError(t, err)
		assert.Equal(t, "SP", addr.State())
		assert.Equal(t, "13010050", addr.PostalCode())
		assert.Equal(t, "Rua das Palmeiras, 120 - Centro, Campinas/SP, 13010-050", addr.String())
	})

	t.Run("blank input is the empty address", func(t *testing.T) {
		addr, err := NewAddress(" ", "", "")
		require.NoError(t, err)
		assert.True(t, addr.IsEmpty())
		v, err := addr.Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("rejects unknown state", func(t *testing.T) {
		_, err := NewAddress("Rua A", "Cidade", "XX")
		assert.Error(t, err)
	})

	t.Run("requires city", func(t *testing.T) {
		_, err := NewAddress("Rua A", "", "MG")
		assert.Error(t, err)
	})
}

func TestAddress_ScanRestoresValue(t *testing.T) {
	addr, err := NewAddress("Av. Brasil", "Belo Horizonte", "MG", WithComplement("Sala 2"))
	require.NoError(t, err)

	raw, err := addr.Value()
	require.NoError(t, err)

	var scanned Address
	require.NoError(t, scanned.Scan(raw))
	assert.Equal(t, addr, scanned)

	var fromJSON Address
	require.NoError(t, json.Unmarshal([]byte(`{"street":"Rua B","city":"Recife","state":"PE"}`), &fromJSON))
	assert.Equal(t, "Rua B, Recife/PE", fromJSON.String())
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", FormatBRL(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "R$ 0,50", FormatBRL(decimal.RequireFromString("0.5")))
	assert.Equal(t, "-R$ 10,00", FormatBRL(decimal.NewFromInt(-10)))
	assert.Equal(t, "1.000.000,00", FormatDecimalBR(decimal.NewFromInt(1000000)))
}
