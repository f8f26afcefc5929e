package funcs

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/theMackabu/ship/pkg/value"
)

// declareRemote registers the external-effecting functions: local file
// reads, plain HTTP calls and the secret backend. All of them execute
// synchronously on the calling worker; failures surface as function
// errors, never partial results.
func (r *Registry) declareRemote() {
	r.declare(Definition{Name: "read", Namespace: []string{"fs"}, Params: []ParamType{TypeString}, Impl: fileRead})

	r.declare(Definition{Name: "get", Namespace: []string{"http"}, Params: []ParamType{TypeString}, VarParam: typed(TypeAny), Impl: r.httpCall(http.MethodGet, false)})
	r.declare(Definition{Name: "post", Namespace: []string{"http"}, Params: []ParamType{TypeString, TypeString}, VarParam: typed(TypeAny), Impl: r.httpCall(http.MethodPost, false)})
	r.declare(Definition{Name: "post_json", Namespace: []string{"http"}, Params: []ParamType{TypeString, TypeAny}, VarParam: typed(TypeAny), Impl: r.httpCall(http.MethodPost, true)})
	r.declare(Definition{Name: "put", Namespace: []string{"http"}, Params: []ParamType{TypeString, TypeString}, VarParam: typed(TypeAny), Impl: r.httpCall(http.MethodPut, false)})

	r.declare(Definition{Name: "kv", Namespace: []string{"secret"}, Params: []ParamType{TypeString}, VarParam: typed(TypeAny), Impl: r.secretKV})
}

func fileRead(args []value.Value) (value.Value, error) {
	data, err := os.ReadFile(args[0].AsString())
	if err != nil {
		return value.Value{}, fmt.Errorf("failed to read file: %w", err)
	}
	if !utf8.Valid(data) {
		return value.Value{}, fmt.Errorf("file %q is not valid UTF-8", args[0].AsString())
	}
	return value.String(string(data)), nil
}

// headerValues extracts an optional trailing header object. Non-string
// header values are ignored, matching lenient header handling upstream.
func headerValues(arg value.Value) map[string]string {
	if arg.Kind() != value.KindObject {
		return nil
	}
	out := make(map[string]string)
	obj := arg.AsObject()
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		if v.Kind() == value.KindString {
			out[k] = v.AsString()
		}
	}
	return out
}

// httpCall builds the implementation for one HTTP verb. For bodied verbs
// the second argument is the payload (raw string, or any value when
// jsonBody is set); an optional trailing object supplies headers.
func (r *Registry) httpCall(method string, jsonBody bool) Impl {
	return func(args []value.Value) (value.Value, error) {
		url := args[0].AsString()

		var body io.Reader
		headerIdx := 1
		contentType := ""
		if method == http.MethodPost || method == http.MethodPut {
			headerIdx = 2
			if jsonBody {
				data, err := args[1].MarshalJSON()
				if err != nil {
					return value.Value{}, fmt.Errorf("encoding JSON body: %w", err)
				}
				body = strings.NewReader(string(data))
				contentType = "application/json"
			} else {
				body = strings.NewReader(args[1].AsString())
			}
		}

		req, err := http.NewRequest(method, url, body)
		if err != nil {
			return value.Value{}, fmt.Errorf("building request: %w", err)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if len(args) > headerIdx {
			for k, v := range headerValues(args[headerIdx]) {
				req.Header.Set(k, v)
			}
		}

		resp, err := r.http.Do(req)
		if err != nil {
			return value.Value{}, fmt.Errorf("%s request failed: %w", method, err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return value.Value{}, fmt.Errorf("failed to read response: %w", err)
		}
		if resp.StatusCode >= http.StatusMultipleChoices {
			return value.Value{}, fmt.Errorf("%s %s returned status %d", method, url, resp.StatusCode)
		}
		if !utf8.Valid(data) {
			return value.Value{}, fmt.Errorf("response body is not valid UTF-8")
		}
		return value.String(string(data)), nil
	}
}

// secretKV reads a secret from the injected backend. With only a path it
// returns the whole secret map; a second non-null string argument
// selects a single key.
func (r *Registry) secretKV(args []value.Value) (value.Value, error) {
	if len(args) > 2 {
		return value.Value{}, fmt.Errorf("too many arguments, expected at most 2")
	}
	if r.kv == nil {
		return value.Value{}, fmt.Errorf("secret backend is not configured")
	}

	data, err := r.kv.Read(args[0].AsString())
	if err != nil {
		return value.Value{}, err
	}
	if len(args) < 2 || args[1].IsNull() {
		return data, nil
	}
	if args[1].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("key selector must be a string")
	}
	if data.Kind() != value.KindObject {
		return data, nil
	}
	key := args[1].AsString()
	v, ok := data.AsObject().Get(key)
	if !ok {
		return value.Value{}, fmt.Errorf("key %q not found in secret", key)
	}
	return v, nil
}
