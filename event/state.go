package event

import "strings"

// PatchOp is a JSON patch (RFC 6902) operation name.
type PatchOp string

const (
	PatchAdd     PatchOp = "add"
	PatchReplace PatchOp = "replace"
	PatchRemove  PatchOp = "remove"
)

// JSONPatch is a single JSON patch operation.
type JSONPatch struct {
	Op    PatchOp `json:"op"`
	Path  string  `json:"path"`
	Value any     `json:"value,omitempty"`
}

// Add returns an add operation.
func Add(path string, value any) JSONPatch {
	return JSONPatch{Op: PatchAdd, Path: path, Value: value}
}

// Replace returns a replace operation.
func Replace(path string, value any) JSONPatch {
	return JSONPatch{Op: PatchReplace, Path: path, Value: value}
}

// Remove returns a remove operation.
func Remove(path string) JSONPatch {
	return JSONPatch{Op: PatchRemove, Path: path}
}

// SlicePath returns the JSON pointer of a slice key.
func SlicePath(key string) string {
	key = strings.ReplaceAll(key, "~", "~0")
	key = strings.ReplaceAll(key, "/", "~1")
	return "/" + key
}
