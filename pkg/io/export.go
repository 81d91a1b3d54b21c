package io

import (
	"bytes"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/layout"
	"github.com/mhuisman/etymon/pkg/lineage"
)

// WriteTree encodes a tree as indented JSON and writes it to w.
// The output re-imports with [ReadTree] for round-trip processing.
func WriteTree(t *lineage.Tree, w io.Writer) error {
	data, err := t.ToJSON()
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncoding, err, "serialize tree")
	}
	return writeIndented(w, data, "tree")
}

// ExportTree writes a tree to a JSON file at path.
func ExportTree(t *lineage.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteTree(t, f)
}

// WriteLayout encodes a layout result as indented JSON and writes it
// to w. The output re-imports with [ReadLayout].
func WriteLayout(res *layout.Result, w io.Writer) error {
	data, err := res.ToJSON()
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncoding, err, "serialize layout")
	}
	return writeIndented(w, data, "layout")
}

// ExportLayout writes a layout result to a JSON file at path.
func ExportLayout(res *layout.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteLayout(res, f)
}

func writeIndented(w io.Writer, data []byte, kind string) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return errors.Wrap(errors.ErrCodeEncoding, err, "format %s", kind)
	}
	buf.WriteByte('\n')
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(errors.ErrCodeEncoding, err, "write %s", kind)
	}
	return nil
}
