package places

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type fakeGoogle struct {
	mu        sync.Mutex
	inputs    []string
	regions   [][]string
	fieldMask string
	status    int
}

func (f *fakeGoogle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"API key not valid. Please pass a valid API key.","status":"PERMISSION_DENIED"}}`)
		return
	}

	switch {
	case strings.HasSuffix(r.URL.Path, ":autocomplete"):
		var body struct {
			Input               string   `json:"input"`
			IncludedRegionCodes []string `json:"includedRegionCodes"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.inputs = append(f.inputs, body.Input)
		f.regions = append(f.regions, body.IncludedRegionCodes)
		_, _ = io.WriteString(w, `{"suggestions":[
			{"placePrediction":{"placeId":"ChIJkor","text":{"text":"Koramangala, Bengaluru, Karnataka, India"},
			 "structuredFormat":{"mainText":{"text":"Koramangala"},"secondaryText":{"text":"Bengaluru, Karnataka, India"}}}},
			{"queryPrediction":{"text":{"text":"koramangala flats"}}}
		]}`)
	case strings.Contains(r.URL.Path, "/places/"):
		f.fieldMask = r.Header.Get("X-Goog-FieldMask")
		_, _ = io.WriteString(w, `{"id":"ChIJkor","displayName":{"text":"Koramangala"},
			"formattedAddress":"Koramangala, Bengaluru, Karnataka 560034, India",
			"location":{"latitude":12.9352,"longitude":77.6245},
			"addressComponents":[
				{"longText":"Bengaluru","shortText":"Bengaluru","types":["locality","political"]},
				{"longText":"Karnataka","shortText":"KA","types":["administrative_area_level_1","political"]},
				{"longText":"560034","shortText":"560034","types":["postal_code"]}
			]}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeGoogle) seen() ([]string, [][]string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.inputs...), f.regions, f.fieldMask
}

func (f *fakeGoogle) fail(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func newTestClient(t *testing.T) (*Client, *fakeGoogle) {
	t.Helper()
	fake := &fakeGoogle{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), "test-key", log.New(io.Discard), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return c, fake
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(context.Background(), " ", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.True(t, api.IsKind(err, api.KindValidation))
}

func TestAutocomplete(t *testing.T) {
	c, fake := newTestClient(t)

	preds, err := c.Autocomplete(context.Background(), " Koramangala ")
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, "ChIJkor", preds[0].PlaceID)
	assert.Equal(t, "Koramangala", preds[0].MainText)
	assert.Equal(t, "Bengaluru, Karnataka, India", preds[0].SecondaryText)
	assert.Equal(t, "Koramangala, Bengaluru, Karnataka, India", preds[0].Description)

	inputs, regions, _ := fake.seen()
	assert.Equal(t, []string{"Koramangala"}, inputs)
	assert.Equal(t, [][]string{{"in"}}, regions)

	preds, err = c.Autocomplete(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, preds)
	inputs, _, _ = fake.seen()
	assert.Len(t, inputs, 1)
}

func TestDetails(t *testing.T) {
	c, fake := newTestClient(t)

	d, err := c.Details(context.Background(), "places/ChIJkor")
	require.NoError(t, err)
	assert.Equal(t, "Koramangala", d.Name)
	assert.Equal(t, "Bengaluru", d.City)
	assert.Equal(t, "Karnataka", d.State)
	assert.Equal(t, "560034", d.PostalCode)
	assert.InDelta(t, 12.9352, d.Latitude, 1e-9)
	assert.InDelta(t, 77.6245, d.Longitude, 1e-9)
	_, _, mask := fake.seen()
	assert.Equal(t, detailsFieldMask, mask)

	_, err = c.Details(context.Background(), "")
	assert.True(t, api.IsKind(err, api.KindValidation))
}

func TestGoogleErrorsAreNormalized(t *testing.T) {
	c, fake := newTestClient(t)
	fake.fail(http.StatusForbidden)

	_, err := c.Autocomplete(context.Background(), "Bandra")
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindForbidden))
	assert.Equal(t, "API key not valid. Please pass a valid API key.", err.Error())
}

func TestSearcherDebounces(t *testing.T) {
	c, fake := newTestClient(t)
	s := c.Searcher(context.Background(), search.WithDelay(50*time.Millisecond))
	defer s.Close()

	s.Input("Ko")
	s.Input("Kora")
	s.Input("Koramangala")

	select {
	case r := <-s.Results():
		require.NoError(t, r.Err)
		assert.Equal(t, "Koramangala", r.Query)
		assert.Len(t, r.Value, 1)
	case <-time.After(3 * time.Second):
		t.Fatal("no autocomplete result")
	}

	inputs, _, _ := fake.seen()
	assert.Equal(t, []string{"Koramangala"}, inputs)
}
