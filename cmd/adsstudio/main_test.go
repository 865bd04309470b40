package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"adsstudio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadForm(t *testing.T) {
	form, err := readForm(strings.NewReader(""), "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCampaignForm(), form)

	form, err = readForm(strings.NewReader(`{"product_name":"Pixel 8","budget_daily":"30"}`), "-")
	require.NoError(t, err)
	assert.Equal(t, "Pixel 8", form.ProductName)
	assert.Equal(t, domain.Budget("30"), form.BudgetDaily)

	path := filepath.Join(t.TempDir(), "form.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"product_name":"Galaxy","budget_daily":25}`), 0o600))
	form, err = readForm(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "Galaxy", form.ProductName)
	assert.Equal(t, domain.Budget("25"), form.BudgetDaily)

	_, err = readForm(strings.NewReader("{"), "-")
	assert.ErrorContains(t, err, "failed to parse form")
}

func TestWritePlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")

	assert.ErrorIs(t, writePlan(&domain.GenerationResult{}, path), domain.ErrNoPlan)

	require.NoError(t, writePlan(&domain.GenerationResult{Plan: map[string]any{"campaigns": []any{}}}, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"campaigns":[]}`, string(data))
}

func TestCopyPreviewURL_Errors(t *testing.T) {
	assert.Error(t, copyPreviewURL(nil, "google", ""))

	result := &domain.GenerationResult{Preview: &domain.Preview{GoogleSearchCard: &domain.GoogleSearchCard{}}}
	assert.ErrorContains(t, copyPreviewURL(result, "google", ""), "no URL")
	assert.ErrorContains(t, copyPreviewURL(result, "meta", ""), "no URL")
	assert.ErrorContains(t, copyPreviewURL(result, "tiktok", ""), "unknown preview card")
}

func TestFormImage(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/a.png", formImage(domain.CampaignForm{}.WithImageURL("https://cdn.example.com/a.png")))
	assert.Equal(t, "data:image/png;base64,AAAA", formImage(domain.CampaignForm{}.WithUploadedImage("data:image/png;base64,AAAA", "")))
	assert.Empty(t, formImage(domain.CampaignForm{}))
}
