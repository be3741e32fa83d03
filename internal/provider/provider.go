// Package provider implements the NEMO data provider: it resolves the
// composite host token of a request, fetches the form responses and maps them
// into a GeoJSON FeatureCollection for the serving layer.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/nemo-provider/internal/config"
	"github.com/sells-group/nemo-provider/pkg/nemo"
)

// Provider identity and the hints attached to every collection.
const (
	Name         = "nemo"
	MetadataName = "NEMO"
	IDField      = "ResponseID"
	TTLSeconds   = 10
)

// Route parameter names read from a Request.
const (
	HostParam = "host"
	IDParam   = "id"
)

// Provider serves FeatureCollections of NEMO form responses. It holds no
// per-call state; every GetData call is independent.
type Provider struct {
	client nemo.Client
}

// New creates a Provider backed by client.
func New(client nemo.Client) *Provider {
	return &Provider{client: client}
}

// FromConfig creates a Provider whose client is configured from cfg. Extra
// options are applied after the configured ones.
func FromConfig(cfg config.ClientConfig, opts ...nemo.Option) *Provider {
	base := []nemo.Option{
		nemo.WithTimeout(time.Duration(cfg.TimeoutSecs) * time.Second),
		nemo.WithUserAgent(cfg.UserAgent),
	}
	return New(nemo.NewClient(append(base, opts...)...))
}

// GetData resolves req, fetches the responses of the form it names and
// returns them as a FeatureCollection. A *ParameterError is returned before
// any network call; upstream failures are returned as *nemo.FetchError and
// malformed location answers as *TransformError. No partial collection is
// ever returned alongside an error.
func (p *Provider) GetData(ctx context.Context, req Request) (*FeatureCollection, error) {
	spec, err := Resolve(req.Param(HostParam), req.Param(IDParam))
	if err != nil {
		return nil, err
	}

	log := zap.L().With(
		zap.String("request_id", uuid.NewString()),
		zap.String("host", spec.Host),
		zap.String("mission", spec.Mission),
		zap.String("form", spec.FormID),
	)
	start := time.Now()

	records, err := p.client.Responses(ctx, spec)
	if err != nil {
		log.Warn("nemo: fetch responses failed", zap.Error(err))
		return nil, err
	}

	features := make([]Feature, 0, len(records))
	for i, r := range records {
		f, err := ToFeature(r)
		if err != nil {
			var te *TransformError
			if errors.As(err, &te) {
				te.Index = i
			}
			log.Warn("nemo: transform record failed", zap.Int("record", i), zap.Error(err))
			return nil, err
		}
		features = append(features, f)
	}

	log.Debug("nemo: responses fetched",
		zap.Int("features", len(features)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
		Metadata: Metadata{Name: MetadataName, IDField: IDField},
		TTL:      TTLSeconds,
	}, nil
}
