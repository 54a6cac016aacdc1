package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sievedata/sieve"
	"github.com/sievedata/sieve/compiler"
	"go.uber.org/zap"
)

func respond(c *Core, w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.requestLogger(r).Warn("Error writing response", zap.Error(err))
	}
}

func respondError(c *Core, w http.ResponseWriter, r *http.Request, err error) {
	status, ae := errorResponse(err)
	if status >= 500 {
		c.requestLogger(r).Warn("Error", zap.Int("status", status), zap.Error(err))
	}
	respond(c, w, r, status, ae)
}

func errorResponse(e error) (int, *Error) {
	var compileErr *compiler.Error
	var mismatch *sieve.TypeMismatchError
	switch {
	case errors.As(e, &compileErr):
		return http.StatusUnprocessableEntity, &Error{Type: "compile error", Message: e.Error()}
	case errors.As(e, &mismatch):
		return http.StatusUnprocessableEntity, &Error{Type: "type mismatch", Message: e.Error()}
	case errors.Is(e, sieve.ErrNoSuchField):
		return http.StatusUnprocessableEntity, &Error{Type: "no such field", Message: e.Error()}
	case errors.Is(e, errBadRequest):
		return http.StatusBadRequest, &Error{Type: "bad request", Message: e.Error()}
	}
	return http.StatusInternalServerError, &Error{Type: "error", Message: e.Error()}
}

var errBadRequest = errors.New("bad request")

func request(c *Core, w http.ResponseWriter, r *http.Request, apiobj interface{}) bool {
	d := json.NewDecoder(r.Body)
	d.UseNumber()
	if err := d.Decode(apiobj); err != nil {
		respondError(c, w, r, fmt.Errorf("%w: %s", errBadRequest, err))
		return false
	}
	return true
}

func handleCompile(c *Core, w http.ResponseWriter, r *http.Request) {
	var req CompileRequest
	if !request(c, w, r, &req) {
		return
	}
	f, err := c.cache.Get(req.Filter)
	if err != nil {
		respondError(c, w, r, err)
		return
	}
	fields := make([]string, 0, len(f.Fields()))
	for _, field := range f.Fields() {
		fields = append(fields, field.Name())
	}
	respond(c, w, r, http.StatusOK, &CompileResponse{Fields: fields})
}

func handleEval(c *Core, w http.ResponseWriter, r *http.Request) {
	var req EvalRequest
	if !request(c, w, r, &req) {
		return
	}
	f, err := c.cache.Get(req.Filter)
	if err != nil {
		respondError(c, w, r, err)
		return
	}
	ectx := sieve.NewContext(c.scheme)
	bound := make(map[string]bool, len(req.Values))
	for name, raw := range req.Values {
		field, err := c.scheme.LookupField(name)
		if err != nil {
			respondError(c, w, r, err)
			return
		}
		val, err := valueFromJSON(field.Type(), raw)
		if err != nil {
			respondError(c, w, r, err)
			return
		}
		if err := ectx.SetFieldValue(name, val); err != nil {
			respondError(c, w, r, err)
			return
		}
		bound[name] = true
	}
	// An unbound field referenced by the filter would panic inside the
	// engine; for externally supplied requests that is a client error, so
	// check boundness up front.
	for _, field := range f.Fields() {
		if !bound[field.Name()] {
			respondError(c, w, r, fmt.Errorf("%w: filter references field %q but no value was provided",
				errBadRequest, field.Name()))
			return
		}
	}
	match, err := f.Eval(ectx)
	if err != nil {
		respondError(c, w, r, err)
		return
	}
	c.evalsTotal.Inc()
	c.evals.Add(1)
	c.rate.Incr(1)
	if match {
		c.matchesTotal.Inc()
	}
	respond(c, w, r, http.StatusOK, &EvalResponse{Match: match})
}

// valueFromJSON converts a decoded JSON value into a sieve value.  JSON has
// fewer kinds than the engine, so strings are parsed per the field's
// declared type for ip and time fields, and numbers follow the field for
// float fields.  The conversion never forces agreement: a JSON kind that
// contradicts the declared type yields a value of its own type, and
// SetFieldValue reports the mismatch.
func valueFromJSON(typ sieve.Type, v interface{}) (sieve.Value, error) {
	switch v := v.(type) {
	case bool:
		return sieve.NewBool(v), nil
	case json.Number:
		if typ == sieve.TypeFloat {
			f, err := v.Float64()
			if err != nil {
				return sieve.Value{}, fmt.Errorf("%w: bad number %q", errBadRequest, v.String())
			}
			return sieve.NewFloat(f), nil
		}
		if i, err := v.Int64(); err == nil {
			return sieve.NewInt(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return sieve.Value{}, fmt.Errorf("%w: bad number %q", errBadRequest, v.String())
		}
		return sieve.NewFloat(f), nil
	case string:
		switch typ {
		case sieve.TypeIP, sieve.TypeTime:
			val, err := sieve.ParseValue(typ, v)
			if err != nil {
				return sieve.Value{}, fmt.Errorf("%w: %s", errBadRequest, err)
			}
			return val, nil
		}
		return sieve.NewString(v), nil
	}
	return sieve.Value{}, fmt.Errorf("%w: unsupported JSON value %v", errBadRequest, v)
}

func handleStatus(c *Core, w http.ResponseWriter, r *http.Request) {
	hits, misses, entries := c.cache.Stats()
	respond(c, w, r, http.StatusOK, &StatusResponse{
		Evaluations: c.evals.Load(),
		RatePerSec:  c.rate.Rate(),
		Cache:       CacheStats{Hits: hits, Misses: misses, Entries: entries},
	})
}

func handleVersion(c *Core, w http.ResponseWriter, r *http.Request) {
	respond(c, w, r, http.StatusOK, &VersionResponse{Version: c.conf.Version})
}
