package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/iccthub/portal-api/pkg/errors"
)

func TestParseStringListJSONArray(t *testing.T) {
	values, err := parseStringList(`["3rd Year", "4th Year"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"3rd Year", "4th Year"}, values)
}

func TestParseStringListCommaSeparated(t *testing.T) {
	values, err := parseStringList("A, B ,C")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, values)
}

func TestParseStringListEmpty(t *testing.T) {
	values, err := parseStringList("  ")
	require.NoError(t, err)
	assert.Nil(t, values)
}

func TestParseStringListRejectsMalformedJSON(t *testing.T) {
	values, err := parseStringList(`["3rd Year", "4th Year"`)
	require.Error(t, err)
	assert.Nil(t, values)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestParseListFieldNamesTheField(t *testing.T) {
	_, err := parseListField("targetYears", `[broken`)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "targetYears")
}
