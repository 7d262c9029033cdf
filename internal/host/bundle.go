package host

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/ngtools/staticreflect/internal/compiler/metadata"
)

const (
	createBundleTable = `CREATE TABLE IF NOT EXISTS modules (
	module TEXT PRIMARY KEY,
	document BLOB NOT NULL
)`
	upsertModule = `INSERT INTO modules (module, document) VALUES (?, ?)
ON CONFLICT(module) DO UPDATE SET document = excluded.document`
	selectModules = `SELECT module, document FROM modules ORDER BY module`
)

// BundleHost serves documents loaded from a bundle database. Every document
// is read when the host is created, so lookups never touch the database.
type BundleHost struct {
	*MemoryHost
}

// NewBundleHost loads every module document from db.
func NewBundleHost(ctx context.Context, db *sql.DB) (*BundleHost, error) {
	rows, err := db.QueryContext(ctx, selectModules)
	if err != nil {
		return nil, fmt.Errorf("failed to query bundle: %w", err)
	}
	defer rows.Close()

	docs := make(map[string]*metadata.ModuleDocument)
	for rows.Next() {
		var module string
		var blob []byte
		if err := rows.Scan(&module, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan bundle row: %w", err)
		}
		data, err := metadata.Decompress(blob)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", module, err)
		}
		doc, err := metadata.ParseModuleDocument(module, data)
		if err != nil {
			return nil, err
		}
		docs[module] = doc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}

	return &BundleHost{MemoryHost: NewMemoryHost(docs)}, nil
}

// WriteBundle stores docs in db, replacing documents already present for
// the same modules. All writes happen in one transaction.
func WriteBundle(ctx context.Context, db *sql.DB, docs map[string]*metadata.ModuleDocument) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, createBundleTable); err != nil {
		return fmt.Errorf("failed to create bundle table: %w", err)
	}

	modules := make([]string, 0, len(docs))
	for module := range docs {
		modules = append(modules, module)
	}
	sort.Strings(modules)

	for _, module := range modules {
		data, serr := metadata.Serialize(docs[module])
		if serr != nil {
			return fmt.Errorf("module %s: %w", module, serr)
		}
		blob, cerr := metadata.Compress(data)
		if cerr != nil {
			return fmt.Errorf("module %s: %w", module, cerr)
		}
		if _, err = tx.ExecContext(ctx, upsertModule, module, blob); err != nil {
			return fmt.Errorf("failed to store module %s: %w", module, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bundle: %w", err)
	}
	return nil
}

// ReadDirectory parses every metadata file under root. Documents are keyed
// by their module path: the file path without the metadata suffix.
func ReadDirectory(fsys afero.Fs, root string) (map[string]*metadata.ModuleDocument, error) {
	docs := make(map[string]*metadata.ModuleDocument)
	err := afero.Walk(fsys, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(p, MetadataSuffix) {
			return nil
		}
		data, err := afero.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		doc, err := metadata.ParseModuleDocument(p, data)
		if err != nil {
			return err
		}
		docs[filepath.ToSlash(strings.TrimSuffix(p, MetadataSuffix))] = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
