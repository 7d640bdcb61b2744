// Package patch applies RFC 7386 JSON merge patches to OCPI resources under a
// per-resource mutability policy. The engine is a pure function: it never
// mutates the given resource, callers swap the stored value themselves.
package patch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"ocpinode/types"
)

// FieldRule validates one mutable field before the merge is applied.
// Display is the human-readable field name used in the failure message.
type FieldRule struct {
	Display string
	Valid   func(value interface{}) bool
}

// Policy Per-resource patch rules. Resource carries the article for message
// building ("a connector", "an EVSE"). Immutable maps a JSON key to the
// display name reported when a patch tries to change it.
type Policy struct {
	Resource   string
	Immutable  map[string]string
	Validators map[string]FieldRule
}

// Result Tri-state patch outcome. PatchedData is always populated: the new
// state on success, the original state on failure.
type Result[T any] struct {
	PatchedData   T
	ErrorResponse string
}

func (r Result[T]) IsSuccess() bool {
	return r.ErrorResponse == ""
}

func (r Result[T]) IsFailed() bool {
	return r.ErrorResponse != ""
}

func success[T any](data T) Result[T] {
	return Result[T]{PatchedData: data}
}

func failure[T any](data T, message string) Result[T] {
	return Result[T]{PatchedData: data, ErrorResponse: message}
}

// Apply merges the patch body into the current resource. Order of evaluation:
// structural decode, identity checks, field validators, timestamp handling,
// merge; the first failure short-circuits with a single message.
//
// An immutable key carrying the unchanged value is dropped from the patch
// instead of failing it. If the patch omits last_updated the current UTC time
// is stamped, but never behind the stored timestamp; a present last_updated
// is taken literally after validation.
func Apply[T any](current *T, body []byte, policy Policy) Result[*T] {
	patchTree, err := decodeTree(body)
	if err != nil {
		return failure(current, "Invalid JSON merge patch!")
	}
	patchObject, ok := patchTree.(map[string]interface{})
	if !ok {
		return failure(current, "Invalid JSON merge patch!")
	}

	currentJSON, err := json.Marshal(current)
	if err != nil {
		return failure(current, "Invalid JSON merge patch!")
	}
	currentTree, err := decodeTree(currentJSON)
	if err != nil {
		return failure(current, "Invalid JSON merge patch!")
	}
	currentObject, _ := currentTree.(map[string]interface{})

	for key, display := range policy.Immutable {
		value, present := patchObject[key]
		if !present {
			continue
		}
		if reflect.DeepEqual(value, currentObject[key]) {
			delete(patchObject, key)
			continue
		}
		return failure(current, fmt.Sprintf("Patching the '%s' of %s is not allowed!", display, policy.Resource))
	}

	for key, rule := range policy.Validators {
		value, present := patchObject[key]
		if !present || value == nil {
			continue
		}
		if !rule.Valid(value) {
			return failure(current, fmt.Sprintf("Invalid '%s'!", rule.Display))
		}
	}

	lastUpdated := types.Now()
	if value, present := patchObject["last_updated"]; present {
		text, ok := value.(string)
		if !ok {
			return failure(current, "Invalid 'last updated'!")
		}
		parsed, err := types.ParseDateTime(text)
		if err != nil {
			return failure(current, "Invalid 'last updated'!")
		}
		lastUpdated = parsed
		delete(patchObject, "last_updated")
	} else if text, ok := currentObject["last_updated"].(string); ok {
		// the auto-stamp never moves a resource backwards in time
		if stored, err := types.ParseDateTime(text); err == nil && stored.Time.After(lastUpdated.Time) {
			lastUpdated = stored
		}
	}

	merged := merge(currentTree, patchObject)
	mergedObject, _ := merged.(map[string]interface{})
	mergedObject["last_updated"] = lastUpdated.String()

	data, err := json.Marshal(mergedObject)
	if err != nil {
		return failure(current, "Invalid JSON merge patch!")
	}
	next := new(T)
	if err = json.Unmarshal(data, next); err != nil {
		return failure(current, "Invalid JSON merge patch!")
	}
	return success(next)
}

// decodeTree keeps numbers as json.Number so decimal values survive the
// round trip through the merge untouched.
func decodeTree(data []byte) (interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var tree interface{}
	if err := decoder.Decode(&tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// merge implements RFC 7386: objects merge recursively, a null value deletes
// the key, everything else (arrays included) replaces wholesale.
func merge(current, patch interface{}) interface{} {
	patchObject, ok := patch.(map[string]interface{})
	if !ok {
		return patch
	}
	currentObject, ok := current.(map[string]interface{})
	if !ok {
		currentObject = map[string]interface{}{}
	}
	result := make(map[string]interface{}, len(currentObject)+len(patchObject))
	for key, value := range currentObject {
		result[key] = value
	}
	for key, value := range patchObject {
		if value == nil {
			delete(result, key)
			continue
		}
		result[key] = merge(result[key], value)
	}
	return result
}
