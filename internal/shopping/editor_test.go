package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2", want: "2"},
		{in: " 1.5 ", want: "1.5"},
		{in: "1,5", want: "1.5"},
		{in: "0", want: "0"},
		{in: "", wantErr: true},
		{in: "iki", wantErr: true},
		{in: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestEditorItems(t *testing.T) {
	ed := Editor{
		Name: "Kahvaltı",
		Rows: []EditorRow{
			{Name: " Peynir ", Amount: "250", Unit: " gr "},
			{},
			{Name: "  ", Amount: " "},
			{Name: "Zeytin", Amount: "0,5", Unit: "kg", IngredientID: "7"},
		},
	}

	items, err := ed.Items()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Peynir", items[0].Name)
	assert.Equal(t, "gr", items[0].Unit)
	assert.Equal(t, "0.5", items[1].Amount.String())
	assert.Equal(t, "7", items[1].IngredientID)

	t.Run("missing name", func(t *testing.T) {
		_, err := Editor{Name: "L", Rows: []EditorRow{{Amount: "1"}}}.Items()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "row 1 name", verr.Field)
	})

	t.Run("bad amount", func(t *testing.T) {
		_, err := Editor{Name: "L", Rows: []EditorRow{{Name: "Un", Amount: "-2"}}}.Items()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, `Please check the amount of "Un": must not be negative.`, UserMessage(err))
	})
}

func TestEditorValidate(t *testing.T) {
	assert.NoError(t, Editor{Name: "L"}.Validate())
	assert.Error(t, Editor{Name: " "}.Validate())
	assert.True(t, Editor{}.IsNew())
	assert.False(t, Editor{ListID: "x"}.IsNew())
}
