package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/nemo-provider/internal/config"
	"github.com/sells-group/nemo-provider/pkg/nemo"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Responses(ctx context.Context, spec nemo.ConnectionSpec) ([]nemo.Record, error) {
	args := m.Called(ctx, spec)
	recs, _ := args.Get(0).([]nemo.Record)
	return recs, args.Error(1)
}

func records(t *testing.T, body string) []nemo.Record {
	t.Helper()
	var out []nemo.Record
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

func TestGetData_Success(t *testing.T) {
	mc := new(mockClient)
	want := nemo.ConnectionSpec{Host: "h", Mission: "m", Username: "u", Password: "p", FormID: "42"}
	mc.On("Responses", mock.Anything, want).Return(records(t, `[
		{"ResponseID":"1","LocationQ":{"Longitude":-122.59,"Latitude":45.58}},
		{"ResponseID":"2"},
		{"ResponseID":"3","Other":{"Longitude":1,"Latitude":2}}
	]`), nil)

	p := New(mc)
	fc, err := p.GetData(context.Background(), Params{"host": "h m u p", "id": "42"})
	require.NoError(t, err)

	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Equal(t, Metadata{Name: "NEMO", IDField: "ResponseID"}, fc.Metadata)
	assert.Equal(t, 10, fc.TTL)
	require.Len(t, fc.Features, 3)

	var ids []any
	for _, f := range fc.Features {
		id, _ := f.Properties.Get("ResponseID")
		ids = append(ids, id)
	}
	assert.Equal(t, []any{"1", "2", "3"}, ids)

	assert.Equal(t, geom.Coord{-122.59, 45.58}, fc.Features[0].Geometry.Coords())
	assert.Nil(t, fc.Features[1].Geometry)
	assert.Equal(t, geom.Coord{1, 2}, fc.Features[2].Geometry.Coords())
	mc.AssertExpectations(t)
}

func TestGetData_EmptyCollection(t *testing.T) {
	mc := new(mockClient)
	mc.On("Responses", mock.Anything, mock.Anything).Return([]nemo.Record{}, nil)

	fc, err := New(mc).GetData(context.Background(), Params{"host": "h m u p", "id": "1"})
	require.NoError(t, err)

	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[],"metadata":{"name":"NEMO","idField":"ResponseID"},"ttl":10}`, string(data))
}

func TestGetData_ParameterErrorSkipsNetwork(t *testing.T) {
	mc := new(mockClient)

	fc, err := New(mc).GetData(context.Background(), Params{"host": "h m u", "id": "42"})

	assert.Nil(t, fc)
	var pe *ParameterError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Password", pe.Field)
	mc.AssertNotCalled(t, "Responses", mock.Anything, mock.Anything)
}

func TestGetData_FetchErrorPropagates(t *testing.T) {
	mc := new(mockClient)
	fetchErr := &nemo.FetchError{Host: "h", Responded: true, StatusCode: http.StatusForbidden}
	mc.On("Responses", mock.Anything, mock.Anything).Return(nil, fetchErr)

	fc, err := New(mc).GetData(context.Background(), Params{"host": "h m u p", "id": "42"})

	assert.Nil(t, fc)
	assert.Same(t, fetchErr, err)
}

func TestGetData_TransformErrorFailsWholeCall(t *testing.T) {
	mc := new(mockClient)
	mc.On("Responses", mock.Anything, mock.Anything).Return(records(t, `[
		{"ResponseID":"1"},
		{"ResponseID":"2","LocationQ":{"Longitude":5,"Latitude":"n/a"}}
	]`), nil)

	fc, err := New(mc).GetData(context.Background(), Params{"host": "h m u p", "id": "42"})

	assert.Nil(t, fc)
	var te *TransformError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, te.Index)
	assert.Equal(t, "LocationQ", te.Field)
	assert.Contains(t, err.Error(), "record 1")
}

func TestGetData_EndToEnd(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/en/m/flood/odata/v1/Responses-9", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "jdoe", user)
		assert.Equal(t, "s3cret", pass)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value":[{"ResponseID":"1","LocationQ":{"Longitude":-122.59,"Latitude":45.58}}]}`))
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "https://")
	p := FromConfig(config.ClientConfig{TimeoutSecs: 5, UserAgent: "test"}, nemo.WithHTTPClient(srv.Client()))

	fc, err := p.GetData(context.Background(), Params{"host": host + " flood jdoe s3cret", "id": "9"})
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, geom.Coord{-122.59, 45.58}, fc.Features[0].Geometry.Coords())
	_, has := fc.Features[0].Properties.Get("LocationQ")
	assert.False(t, has)
}

func TestGetData_ConnectionRefused(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	host := strings.TrimPrefix(srv.URL, "https://")
	hc := srv.Client()
	srv.Close()

	p := New(nemo.NewClient(nemo.WithHTTPClient(hc)))
	fc, err := p.GetData(context.Background(), Params{"host": host + " m jdoe s3cret", "id": "1"})

	assert.Nil(t, fc)
	var fe *nemo.FetchError
	require.True(t, errors.As(err, &fe))
	assert.False(t, fe.Responded)
	assert.NotContains(t, err.Error(), "s3cret")
}
