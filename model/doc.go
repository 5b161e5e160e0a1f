// Package model defines the shapes of the host's state slices and of the
// payloads carried by their actions.
//
// The host owns these slices; the types are shared so both sides agree on
// the in-memory message shapes:
//
//	st, ok := store.SliceAs[model.SearchState](state, model.SearchSlice)
//
// JSON tags follow the host's persisted document format.
package model
