package server

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/theMackabu/ship/pkg/document"
	"github.com/theMackabu/ship/pkg/funcs"
	"github.com/theMackabu/ship/pkg/httputil"
	"github.com/theMackabu/ship/pkg/project"
)

// handleRender loads, evaluates and projects one document. The request
// path is resolved against the storage root; a path that is not itself
// a document falls back to path/index.hcl.
func (s *Server) handleRender(w http.ResponseWriter, req *http.Request) {
	rel := strings.TrimPrefix(path.Clean("/"+req.URL.Path), "/")
	full := filepath.Join(s.settings.Storage, filepath.FromSlash(rel))

	doc, err := document.Load(full)
	if err != nil {
		doc, err = document.Load(filepath.Join(full, "index.hcl"))
	}
	if err != nil {
		var perr *document.ParseError
		switch {
		case errors.As(err, &perr):
			s.fail(w, req, http.StatusInternalServerError, err)
		case errors.Is(err, os.ErrNotExist):
			s.fail(w, req, http.StatusNotFound, errors.New("document not found"))
		default:
			s.fail(w, req, http.StatusInternalServerError, err)
		}
		return
	}

	if err := doc.ResolveVariables(); err != nil {
		s.fail(w, req, http.StatusInternalServerError, err)
		return
	}
	if err := doc.ResolveMeta(); err != nil {
		if errors.Is(err, document.ErrMissingMeta) {
			s.fail(w, req, http.StatusNotFound, err)
		} else {
			s.fail(w, req, http.StatusInternalServerError, err)
		}
		return
	}
	doc.DeclareBuiltins(s.version)

	lang := req.URL.Query().Get("lang")
	if lang == "" {
		lang = doc.Export
	}
	format, ok := project.ParseFormat(lang)
	if !ok {
		s.fail(w, req, http.StatusBadRequest, errors.New("language not found"))
		return
	}

	reg := funcs.NewRegistry(funcs.Options{Secrets: s.secrets})
	tree, err := doc.Evaluate(reg)
	if err != nil {
		s.fail(w, req, http.StatusInternalServerError, err)
		return
	}

	out, err := project.Render(format, tree)
	if err != nil {
		s.fail(w, req, http.StatusInternalServerError, err)
		return
	}

	base := doc.FileBase
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	}
	if base == "" || base == "." {
		base = "index"
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+base+"."+format.Ext()+`"`)
	_, _ = w.Write([]byte(out))
}

func (s *Server) fail(w http.ResponseWriter, req *http.Request, status int, err error) {
	s.log.Warn("render failed", "path", req.URL.Path, "status", status, "error", err.Error())
	httputil.WriteError(w, status, err.Error())
}
