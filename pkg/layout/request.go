package layout

import (
	"strconv"
	"strings"

	"github.com/matzehuels/tracelayout/pkg/errors"
	"github.com/matzehuels/tracelayout/pkg/slice"
)

// Request is a parsed filter_track_ids argument.
type Request struct {
	// Raw is the argument exactly as bound. It is echoed into every row.
	Raw string
	// TrackIDs are the requested tracks in first-occurrence order, without
	// duplicates.
	TrackIDs []slice.TrackID
}

// ParseRequest parses raw into a Request.
func ParseRequest(raw string) (Request, error) {
	ids, err := ParseTrackIDs(raw)
	if err != nil {
		return Request{}, err
	}
	return Request{Raw: raw, TrackIDs: ids}, nil
}

// ParseTrackIDs parses a comma separated list of decimal track ids.
//
// The empty string yields no ids. Whitespace, signs and empty elements are
// rejected. Repeated ids collapse onto their first occurrence.
func ParseTrackIDs(arg string) ([]slice.TrackID, error) {
	if arg == "" {
		return nil, nil
	}
	parts := strings.Split(arg, ",")
	ids := make([]slice.TrackID, 0, len(parts))
	seen := make(map[slice.TrackID]struct{}, len(parts))
	for i, p := range parts {
		if p == "" {
			return nil, errors.New(errors.ErrCodeInvalidArgument,
				"filter_track_ids: empty track id at position %d in %q", i, arg)
		}
		if !isDigits(p) {
			return nil, errors.New(errors.ErrCodeInvalidArgument,
				"filter_track_ids: invalid track id %q", p)
		}
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err,
				"filter_track_ids: track id %q out of range", p)
		}
		id := slice.TrackID(n)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
