package gtfsrt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/reroute-fukuoka/reroute/pkg/realtime"
	"google.golang.org/protobuf/proto"
)

// Feed reads a GTFS-realtime TripUpdates feed over HTTP.
type Feed struct {
	URL        string
	HTTPClient *http.Client
	Location   *time.Location
	now        func() time.Time
}

func NewFeed(url string, location *time.Location) *Feed {
	if location == nil {
		location = time.Local
	}

	return &Feed{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Location:   location,
		now:        time.Now,
	}
}

func (f *Feed) Name() string {
	return "gtfs-rt"
}

func (f *Feed) Fetch(ctx context.Context, queries []realtime.TripQuery) ([]realtime.Patch, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gtfs-rt feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	patches, err := ParseFeed(body, f.Location, f.now())
	if err != nil {
		return nil, err
	}

	return filterTrips(patches, queries), nil
}

func filterTrips(patches []realtime.Patch, queries []realtime.TripQuery) []realtime.Patch {
	if len(queries) == 0 {
		return patches
	}

	wanted := map[string]bool{}
	for _, query := range queries {
		wanted[query.TripID] = true
	}

	filtered := patches[:0]
	for _, patch := range patches {
		if wanted[patch.TripID] {
			filtered = append(filtered, patch)
		}
	}
	return filtered
}

// ParseFeed converts trip updates into patches. Cancelled trips produce a
// single trip wide patch; otherwise each consecutive pair of stop time
// updates becomes a segment patch, cancelled when either stop is skipped.
// Event times are converted to minutes after midnight of the trip's start
// date, or of now when the trip carries none.
func ParseFeed(body []byte, location *time.Location, now time.Time) ([]realtime.Patch, error) {
	feed := gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decoding gtfs-rt feed: %w", err)
	}

	var patches []realtime.Patch
	for _, entity := range feed.GetEntity() {
		tripUpdate := entity.GetTripUpdate()
		if tripUpdate == nil {
			continue
		}

		trip := tripUpdate.GetTrip()
		tripID := trip.GetTripId()
		if tripID == "" {
			continue
		}

		if trip.GetScheduleRelationship() == gtfs.TripDescriptor_CANCELED {
			patches = append(patches, realtime.Patch{TripID: tripID, Status: realtime.StatusCancelled})
			continue
		}

		midnight := serviceMidnight(trip.GetStartDate(), location, now)
		updates := tripUpdate.GetStopTimeUpdate()

		for i := 0; i+1 < len(updates); i++ {
			from := updates[i]
			to := updates[i+1]
			if from.GetStopId() == "" || to.GetStopId() == "" {
				continue
			}

			patch := realtime.Patch{
				TripID:   tripID,
				FromCode: from.GetStopId(),
				ToCode:   to.GetStopId(),
			}

			if skipped(from) || skipped(to) {
				patch.Status = realtime.StatusCancelled
				patches = append(patches, patch)
				continue
			}

			depart, departOK := eventMinutes(from.GetDeparture(), midnight)
			if !departOK {
				depart, departOK = eventMinutes(from.GetArrival(), midnight)
			}
			arrive, arriveOK := eventMinutes(to.GetArrival(), midnight)
			if !arriveOK {
				arrive, arriveOK = eventMinutes(to.GetDeparture(), midnight)
			}

			if departOK && arriveOK {
				patch.HasTimes = true
				patch.Depart = depart
				patch.Arrive = arrive
			}
			patch.DelayMinutes = int(from.GetDeparture().GetDelay() / 60)

			patches = append(patches, patch)
		}
	}

	return patches, nil
}

func skipped(update *gtfs.TripUpdate_StopTimeUpdate) bool {
	return update.GetScheduleRelationship() == gtfs.TripUpdate_StopTimeUpdate_SKIPPED
}

func serviceMidnight(startDate string, location *time.Location, now time.Time) time.Time {
	if date, err := time.ParseInLocation("20060102", startDate, location); err == nil {
		return date
	}

	local := now.In(location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location)
}

func eventMinutes(event *gtfs.TripUpdate_StopTimeEvent, midnight time.Time) (int, bool) {
	if event == nil || event.GetTime() == 0 {
		return 0, false
	}

	at := time.Unix(event.GetTime(), 0)
	return int(at.Sub(midnight) / time.Minute), true
}
