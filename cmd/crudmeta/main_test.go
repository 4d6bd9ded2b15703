package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-crudmeta/internal/prompt"
	"github.com/goliatone/go-crudmeta/pkg/text"
)

type stubDriver struct {
	inputs    []string
	confirm   bool
	selectIdx int
	asked     []string
	infos     []string
}

func (d *stubDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.inputs) == 0 {
		return "", nil
	}
	out := d.inputs[0]
	d.inputs = d.inputs[1:]
	return out, nil
}

func (d *stubDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return d.confirm, nil
}

func (d *stubDriver) Select(context.Context, prompt.SelectConfig) (int, error) {
	return d.selectIdx, nil
}

func (d *stubDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func writeBundles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func newEnv(driver prompt.Driver) (*env, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &env{stdout: &stdout, stderr: &stderr, driver: driver, logger: zerolog.Nop()}, &stdout, &stderr
}

const rootBundle = `
crud:
  user:
    name: Name
    email: Email
save: Save
`

func TestRun_MissingReportsKeysAndFails(t *testing.T) {
	dir := writeBundles(t, map[string]string{
		"root.yaml": rootBundle,
		"de.yaml":   "save: Speichern\n",
		"fr.json":   `{"save": "Enregistrer", "crud": {"user": {"name": "Nom", "email": "Courriel"}}}`,
	})
	e, stdout, _ := newEnv(&stubDriver{})

	code := run(context.Background(), e, []string{"missing", "-dir", dir})
	assert.Equal(t, 1, code)
	assert.Equal(t, "de.yaml: crud.user.email\nde.yaml: crud.user.name\n", stdout.String())

	e, stdout, _ = newEnv(&stubDriver{})
	assert.Equal(t, 0, run(context.Background(), e, []string{"missing", "-dir", dir, "-locale", "fr"}))
	assert.Empty(t, stdout.String())
}

func TestRun_UnknownCommandAndUsage(t *testing.T) {
	e, _, stderr := newEnv(&stubDriver{})
	assert.Equal(t, 2, run(context.Background(), e, []string{"translate"}))
	assert.Contains(t, stderr.String(), `unknown command "translate"`)
	assert.Contains(t, stderr.String(), "textfill")

	e, _, _ = newEnv(&stubDriver{})
	assert.Equal(t, 2, run(context.Background(), e, nil))
}

func TestRun_TextfillMergesAnswers(t *testing.T) {
	dir := writeBundles(t, map[string]string{
		"root.yaml": rootBundle,
		"de.yaml":   "save: Speichern\n",
	})
	driver := &stubDriver{inputs: []string{"E-Mail", "  "}, confirm: true}
	e, _, stderr := newEnv(driver)

	code := run(context.Background(), e, []string{"textfill", "-dir", dir, "-locale", "de"})
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, []string{"crud.user.email", "crud.user.name"}, driver.asked)

	catalog, err := text.LoadFS(os.DirFS(dir))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"save": "Speichern", "crud.user.email": "E-Mail"}, catalog.Entries("de"))
}

func TestRun_TextfillSelectsLocaleAndRespectsDecline(t *testing.T) {
	dir := writeBundles(t, map[string]string{
		"root.yaml": rootBundle,
		"de.yaml":   "save: Speichern\n",
		"es.yaml":   "save: Guardar\n",
	})
	driver := &stubDriver{inputs: []string{"Correo", "Nombre"}, selectIdx: 1, confirm: false}
	e, _, _ := newEnv(driver)

	require.Equal(t, 0, run(context.Background(), e, []string{"textfill", "-dir", dir}))
	assert.Len(t, driver.asked, 2)
	assert.Contains(t, driver.infos[0], "es.yaml")

	data, err := os.ReadFile(filepath.Join(dir, "es.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "save: Guardar\n", string(data), "declined write must leave the bundle untouched")
}

func TestMergeBundle_CreatesAndKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pt-BR.yaml")

	require.NoError(t, mergeBundle(path, map[string]string{"save": "Salvar"}))
	require.NoError(t, mergeBundle(path, map[string]string{"save": "Gravar", "cancel": "Cancelar"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	values, err := text.ParseBundle(data, path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"save": "Salvar", "cancel": "Cancelar"}, values)
}

func TestRun_SQLRoundTrip(t *testing.T) {
	dir := writeBundles(t, map[string]string{
		"root.yaml": rootBundle,
		"de.yaml":   "save: Speichern\n",
	})
	db := filepath.Join(t.TempDir(), "texts.db")
	out := filepath.Join(t.TempDir(), "export")

	e, _, stderr := newEnv(&stubDriver{})
	require.Equal(t, 0, run(context.Background(), e, []string{"sqlimport", "-dir", dir, "-db", db}), stderr.String())

	e, stdout, stderr := newEnv(&stubDriver{})
	require.Equal(t, 0, run(context.Background(), e, []string{"sqlexport", "-db", db, "-out", out}), stderr.String())
	assert.Equal(t, 2, strings.Count(stdout.String(), "\n"))

	original, err := text.LoadFS(os.DirFS(dir))
	require.NoError(t, err)
	exported, err := text.LoadFS(os.DirFS(out))
	require.NoError(t, err)
	assert.Equal(t, original.All(), exported.All())

	e, _, stderr = newEnv(&stubDriver{})
	assert.Equal(t, 1, run(context.Background(), e, []string{"sqlexport", "-db", db, "-out", out}))
	assert.Contains(t, stderr.String(), "pass -force")
}
