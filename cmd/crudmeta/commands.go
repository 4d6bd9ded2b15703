package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-crudmeta/internal/prompt"
	"github.com/goliatone/go-crudmeta/pkg/text"
	"github.com/goliatone/go-crudmeta/pkg/text/sqltext"
)

// errFindings reports a successful run that found problems (missing keys).
var errFindings = errors.New("findings reported")

func newFlagSet(e *env, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func loadDir(dir string) (*text.Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return text.LoadFS(os.DirFS(dir))
}

func runMissing(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "missing")
	dir := fs.String("dir", "locales", "directory holding text bundles")
	locale := fs.String("locale", "", "locale to check (all locales when empty)")
	reference := fs.String("reference", "", "reference locale (root bundle when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	catalog, err := loadDir(*dir)
	if err != nil {
		return err
	}

	targets := []string{*locale}
	if *locale == "" {
		targets = targets[:0]
		for _, l := range catalog.Locales() {
			if l != text.NormalizeLocale(*reference) {
				targets = append(targets, l)
			}
		}
	}

	total := 0
	for _, target := range targets {
		missing := catalog.Missing(target, *reference)
		for _, key := range missing {
			fmt.Fprintf(e.stdout, "%s: %s\n", text.BundleFile(target), key)
		}
		total += len(missing)
	}
	e.logger.Info().Int("locales", len(targets)).Int("missing", total).Msg("text bundles checked")
	if total > 0 {
		return errFindings
	}
	return nil
}

func runTextfill(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "textfill")
	dir := fs.String("dir", "locales", "directory holding text bundles")
	locale := fs.String("locale", "", "locale to fill (prompted when empty)")
	reference := fs.String("reference", "", "reference locale (root bundle when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	catalog, err := loadDir(*dir)
	if err != nil {
		return err
	}

	target := text.NormalizeLocale(*locale)
	if target == "" {
		var options []string
		for _, l := range catalog.Locales() {
			if l != "" {
				options = append(options, l)
			}
		}
		if len(options) == 0 {
			return errors.New("no locale bundles found; pass -locale")
		}
		idx, err := e.driver.Select(ctx, prompt.SelectConfig{Message: "Locale to fill", Options: options})
		if err != nil {
			return err
		}
		if idx < 0 {
			return errors.New("no locale selected")
		}
		target = options[idx]
	}

	values, err := fillMissing(ctx, e.driver, catalog, target, *reference)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return e.driver.Info(ctx, fmt.Sprintf("%s: nothing to write", text.BundleFile(target)))
	}

	path := filepath.Join(*dir, text.BundleFile(target))
	ok, err := e.driver.Confirm(ctx, prompt.ConfirmConfig{
		Message: fmt.Sprintf("Write %d texts to %s?", len(values), path),
		Default: true,
	})
	if err != nil || !ok {
		return err
	}
	if err := mergeBundle(path, values); err != nil {
		return err
	}
	e.logger.Info().Str("file", path).Int("written", len(values)).Msg("text bundle updated")
	return nil
}

func runSQLImport(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "sqlimport")
	dir := fs.String("dir", "locales", "directory holding text bundles")
	dsn := fs.String("db", "crudmeta.db", "SQLite database path")
	table := fs.String("table", sqltext.DefaultTable, "text table name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	catalog, err := loadDir(*dir)
	if err != nil {
		return err
	}
	store, closeDB, err := openStore(ctx, e, *dsn, *table)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := store.Import(ctx, catalog); err != nil {
		return err
	}
	e.logger.Info().Str("db", *dsn).Int("entries", len(catalog.All())).Msg("text bundles imported")
	return nil
}

func runSQLExport(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "sqlexport")
	out := fs.String("out", "locales", "directory receiving the bundles")
	dsn := fs.String("db", "crudmeta.db", "SQLite database path")
	table := fs.String("table", sqltext.DefaultTable, "text table name")
	force := fs.Bool("force", false, "overwrite existing bundle files")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, closeDB, err := openStore(ctx, e, *dsn, *table)
	if err != nil {
		return err
	}
	defer closeDB()

	catalog := text.NewCatalog()
	if _, err := store.Load(ctx, catalog); err != nil {
		return err
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}
	for _, locale := range catalog.Locales() {
		path := filepath.Join(*out, text.BundleFile(locale))
		if _, err := os.Stat(path); err == nil && !*force {
			return fmt.Errorf("%s exists; pass -force to overwrite", path)
		}
		var buf bytes.Buffer
		if err := text.WriteYAML(&buf, catalog.Entries(locale)); err != nil {
			return err
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, path)
	}
	return nil
}

func openStore(ctx context.Context, e *env, dsn, table string) (*sqltext.Store, func(), error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { _ = db.Close() }
	store, err := sqltext.New(db, sqltext.WithTable(table), sqltext.WithLogger(e.logger))
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}
	return store, closeDB, nil
}
