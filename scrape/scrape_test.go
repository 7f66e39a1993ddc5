package scrape_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/obras"
	"github.com/fwojciec/obras/goquery"
	"github.com/fwojciec/obras/mock"
	"github.com/fwojciec/obras/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://portal.test/_DetalleProyecto?idProyecto="

// listingRow renders a nine-cell listing row; an empty id omits the button.
func listingRow(code, id string) string {
	button := ""
	if id != "" {
		button = `<button title="Ver Detalle" onclick="VerDetalleProyecto('` + id + `')">Ver</button>`
	}
	return "<tr><td>1</td><td>" + code + "</td><td>n</td><td>c</td><td>s</td><td>l</td><td>k</td><td>e</td><td>" + button + "</td></tr>"
}

func listing(rows ...string) string {
	return `<table id="_tblProyecto"><tbody>` + strings.Join(rows, "") + `</tbody></table>`
}

const detailPage = `<html><body>
<input id="_CODIGOBPIN" value="2023001">
<textarea id="_NOMBREPROYECTO">dotación escolar</textarea>
<table id="_tblDetallePryecto"><tbody><tr><td>Antioquia</td><td>05001</td><td>Medellín</td></tr></tbody></table>
</body></html>`

// recordingStore collects saved records and tracks commit/abort calls.
type recordingStore struct {
	saved     []*obras.OutputRecord
	committed bool
	aborted   bool
}

func (r *recordingStore) mock() *mock.RecordStore {
	return &mock.RecordStore{
		SaveFn: func(ctx context.Context, rec *obras.OutputRecord) error {
			r.saved = append(r.saved, rec)
			return nil
		},
		CommitFn: func() error { r.committed = true; return nil },
		AbortFn:  func() error { r.aborted = true; return nil },
	}
}

func newScraper(fetcher obras.Fetcher, store obras.RecordStore) *scrape.Scraper {
	return &scrape.Scraper{
		Listing:       goquery.NewListingExtractor(),
		Details:       goquery.NewDetailExtractor(),
		Fetcher:       fetcher,
		Store:         store,
		DetailBaseURL: baseURL,
	}
}

func TestScraper_Run(t *testing.T) {
	t.Parallel()

	t.Run("preserves listing index across skipped rows", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				fetched = append(fetched, url)
				return detailPage, nil
			},
		}
		rs := &recordingStore{}

		result, err := newScraper(fetcher, rs.mock()).Run(context.Background(),
			listing(listingRow("A", ""), listingRow("B", "uuid-b")), nil)

		require.NoError(t, err)
		assert.Equal(t, []string{baseURL + "uuid-b"}, fetched)
		require.Len(t, rs.saved, 1)
		assert.Equal(t, 1, rs.saved[0].Index)
		assert.Equal(t, "2023001", rs.saved[0].BPIN)
		assert.Equal(t, "dotacion-escolar", rs.saved[0].Slug)
		assert.True(t, rs.committed)
		assert.False(t, rs.aborted)

		assert.Equal(t, 2, result.Total)
		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, obras.SkipNoIdentifier, result.Outcomes[0].Skip)
		assert.True(t, result.Outcomes[1].OK())
	})

	t.Run("outcomes carry the detail URL and built record", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) { return detailPage, nil },
		}

		result, err := newScraper(fetcher, (&recordingStore{}).mock()).Run(context.Background(),
			listing(listingRow("A", ""), listingRow("B", "b")), nil)

		require.NoError(t, err)
		require.Len(t, result.Outcomes, 2)
		assert.False(t, result.Outcomes[0].OK())
		assert.Empty(t, result.Outcomes[0].URL)
		assert.Equal(t, "B", result.Outcomes[1].Summary.Code)
		require.True(t, result.Outcomes[1].OK())
		assert.Equal(t, baseURL+"b", result.Outcomes[1].URL)
		assert.Equal(t, 1, result.Outcomes[1].Record.Index)
		assert.Equal(t, "[['Antioquia', '05001', 'Medellín']]", result.Outcomes[1].Record.LocationData)
	})

	t.Run("404 skips the row and continues with the next", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				fetched = append(fetched, url)
				if strings.HasSuffix(url, "missing") {
					return "", obras.Errorf(obras.EUNAVAILABLE, "HTTP 404 for %s", url)
				}
				return detailPage, nil
			},
		}
		rs := &recordingStore{}

		result, err := newScraper(fetcher, rs.mock()).Run(context.Background(),
			listing(listingRow("A", "missing"), listingRow("B", "ok")), nil)

		require.NoError(t, err)
		assert.Len(t, fetched, 2)
		require.Len(t, rs.saved, 1)
		assert.Equal(t, 1, rs.saved[0].Index)
		assert.Equal(t, obras.SkipFetchFailed, result.Outcomes[0].Skip)
		assert.Equal(t, obras.EUNAVAILABLE, obras.ErrorCode(result.Outcomes[0].Err))
	})

	t.Run("only failing rows aborts the store", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", obras.Errorf(obras.EUNAVAILABLE, "HTTP 404 for %s", url)
			},
		}
		rs := &recordingStore{}

		result, err := newScraper(fetcher, rs.mock()).Run(context.Background(), listing(listingRow("A", "x")), nil)

		require.NoError(t, err)
		assert.Zero(t, result.Saved)
		assert.Empty(t, rs.saved)
		assert.True(t, rs.aborted)
		assert.False(t, rs.committed)
	})

	t.Run("parse failures are reported as parse-failed", func(t *testing.T) {
		t.Parallel()

		s := newScraper(&mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) { return "<html></html>", nil },
		}, (&recordingStore{}).mock())
		s.Details = &mock.DetailExtractor{
			ExtractDetailFn: func(html string) (*obras.ProjectDetail, error) {
				return nil, errors.New("bad markup")
			},
		}

		result, err := s.Run(context.Background(), listing(listingRow("A", "x")), nil)

		require.NoError(t, err)
		require.Len(t, result.Outcomes, 1)
		assert.Equal(t, obras.SkipParseFailed, result.Outcomes[0].Skip)
		assert.EqualError(t, result.Outcomes[0].Err, "bad markup")
	})

	t.Run("missing listing table returns ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				t.Fatal("fetch should not be called")
				return "", nil
			},
		}

		_, err := newScraper(fetcher, (&recordingStore{}).mock()).Run(context.Background(), "<html></html>", nil)

		require.Error(t, err)
		assert.Equal(t, obras.ENOTFOUND, obras.ErrorCode(err))
	})

	t.Run("save failure aborts the run", func(t *testing.T) {
		t.Parallel()

		var aborted bool
		store := &mock.RecordStore{
			SaveFn:  func(ctx context.Context, rec *obras.OutputRecord) error { return errors.New("disk full") },
			AbortFn: func() error { aborted = true; return nil },
		}
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) { return detailPage, nil },
		}

		_, err := newScraper(fetcher, store).Run(context.Background(), listing(listingRow("A", "x")), nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.True(t, aborted)
	})

	t.Run("stops between rows when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var calls int
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				calls++
				cancel()
				return detailPage, nil
			},
		}
		rs := &recordingStore{}

		_, err := newScraper(fetcher, rs.mock()).Run(ctx, listing(listingRow("A", "a"), listingRow("B", "b")), nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
		assert.True(t, rs.aborted)
	})

	t.Run("reports progress events in order", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) { return detailPage, nil },
		}
		var events []scrape.ProgressType

		_, err := newScraper(fetcher, (&recordingStore{}).mock()).Run(context.Background(),
			listing(listingRow("A", ""), listingRow("B", "b")),
			func(e scrape.ProgressEvent) {
				assert.Equal(t, 2, e.Total)
				events = append(events, e.Type)
			})

		require.NoError(t, err)
		assert.Equal(t, []scrape.ProgressType{
			scrape.ProgressStarted,
			scrape.ProgressSkipped,
			scrape.ProgressFetching,
			scrape.ProgressCompleted,
			scrape.ProgressFinished,
		}, events)
	})
}

func TestScraper_Preview(t *testing.T) {
	t.Parallel()

	s := newScraper(nil, nil)

	summaries, err := s.Preview(listing(listingRow("A", "a"), listingRow("B", "")))

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "a", summaries[0].OpaqueID)
	assert.Equal(t, "B", summaries[1].Code)
}
