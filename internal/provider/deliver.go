package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/sells-group/nemo-provider/pkg/nemo"
)

// Callback receives either a collection or an error, never both.
type Callback func(fc *FeatureCollection, err error) error

// Deliver runs GetData and hands the outcome to cb. A panic or error raised
// by cb is logged without its detail and reported as ErrDelivery.
func (p *Provider) Deliver(ctx context.Context, req Request, cb Callback) (err error) {
	fc, getErr := p.GetData(ctx, req)

	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("nemo: delivery callback panicked", zap.String("panic_type", fmt.Sprintf("%T", r)))
			err = ErrDelivery
		}
	}()

	if cbErr := cb(fc, getErr); cbErr != nil {
		zap.L().Error("nemo: delivery callback failed")
		return ErrDelivery
	}
	return nil
}

// Handler returns an http.Handler that delivers the collection as JSON. It
// must be mounted by the host router under a pattern exposing {host} and {id}.
func (p *Provider) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := p.Deliver(r.Context(), RouteParams(r), func(fc *FeatureCollection, err error) error {
			if err != nil {
				writeError(w, err)
				return nil
			}
			body, err := json.Marshal(fc)
			if err != nil {
				return err
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, err = w.Write(body)
			return err
		})
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "internal error")
		}
	})
}

func writeError(w http.ResponseWriter, err error) {
	var (
		pe *ParameterError
		fe *nemo.FetchError
		te *TransformError
	)
	switch {
	case errors.As(err, &pe):
		writeJSONError(w, http.StatusBadRequest, pe.Error())
	case errors.As(err, &fe):
		writeJSONError(w, http.StatusBadGateway, fe.Error())
	case errors.As(err, &te):
		writeJSONError(w, http.StatusBadGateway, te.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
