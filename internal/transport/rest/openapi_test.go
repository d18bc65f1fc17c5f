package rest

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"
)

func loadSpec(t *testing.T) *openapi3.T {
	t.Helper()

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile("../../../api/openapi.yml")
	require.NoError(t, err, "openapi.yml must parse")
	return doc
}

func TestOpenAPISpecIsValid(t *testing.T) {
	doc := loadSpec(t)
	require.NoError(t, doc.Validate(context.Background()), "openapi.yml must validate")
}

func TestOpenAPICoversRegisteredRoutes(t *testing.T) {
	doc := loadSpec(t)

	expected := []string{
		"/health",
		"/ping",
		"/auth/login",
		"/auth/refresh",
		"/auth/logout",
		"/users/me",
		"/users/me/password",
		"/residents",
		"/residents/export.csv",
		"/residents/blocks",
		"/residents/{id}",
		"/dues/daily",
		"/dues/package",
		"/dues/custom",
		"/dues/report/monthly",
		"/dues/report/ytd",
		"/dues/matrix",
		"/dues/residents/{id}",
		"/transactions",
		"/transactions/recent",
		"/transactions/summary",
		"/settings",
		"/settings/daily-rate",
		"/settings/{key}",
		"/backup/export",
		"/backup/import",
	}

	for _, path := range expected {
		require.NotNil(t, doc.Paths.Find(path), "path %s missing from openapi.yml", path)
	}
}

func TestOpenAPICashCategoriesMatchLedger(t *testing.T) {
	doc := loadSpec(t)

	schema := doc.Components.Schemas["TransactionInput"]
	require.NotNil(t, schema)

	category := schema.Value.Properties["category"]
	require.NotNil(t, category)

	var got []string
	for _, v := range category.Value.Enum {
		got = append(got, v.(string))
	}
	require.ElementsMatch(t, []string{"masuk", "keluar"}, got)
}
