package io

import (
	"io"
	"os"

	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/layout"
	"github.com/mhuisman/etymon/pkg/lineage"
)

// ReadTree decodes a lineage tree from r. It does not close r.
func ReadTree(r io.Reader) (*lineage.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "read tree")
	}
	tree, err := lineage.FromJSON(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "parse tree")
	}
	return tree, nil
}

// ImportTree reads a tree file written by [ExportTree] or `trace -o`.
func ImportTree(path string) (*lineage.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, openError(err, "tree", path)
	}
	tree, err := lineage.FromJSON(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "parse tree %s", path)
	}
	return tree, nil
}

// ReadLayout decodes a layout result from r. It does not close r.
func ReadLayout(r io.Reader) (*layout.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "read layout")
	}
	res, err := layout.ResultFromJSON(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "parse layout")
	}
	return res, nil
}

// ImportLayout reads a layout file written by [ExportLayout] or `layout -o`.
func ImportLayout(path string) (*layout.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, openError(err, "layout", path)
	}
	res, err := layout.ResultFromJSON(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "parse layout %s", path)
	}
	return res, nil
}

func openError(err error, kind, path string) error {
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "%s file %s", kind, path)
	}
	return errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s file %s", kind, path)
}
