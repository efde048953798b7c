// Package form reads submitted form values, including indexed list fields
// such as exercises[0].name, into ordered records.
package form

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrUnsupportedMediaType is returned for bodies that are not form encoded.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrFailedToParseForm indicates the multipart body could not be read.
	ErrFailedToParseForm = errors.New("failed to parse form data")

	// ErrMalformedKey is returned for a key under a list prefix that carries no
	// numeric index, e.g. "exercises.name" or "exercises[].name".
	ErrMalformedKey = errors.New("malformed indexed form key")

	// ErrIndexGap is returned when list indices are not contiguous from zero.
	ErrIndexGap = errors.New("indexed form keys are not contiguous")

	// ErrUnknownField is returned for an indexed key with an unexpected sub-field.
	ErrUnknownField = errors.New("unknown indexed form field")
)

const (
	mimeURLEncoded = "application/x-www-form-urlencoded"
	mimeMultipart  = "multipart/form-data"
)

var indexedKey = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\[(\d+)\]\.([A-Za-z_][A-Za-z0-9_]*)$`)

// Values is a parsed form body. The first value of a key wins on Get.
type Values map[string][]string

// Get returns the first value for key, trimmed, or "".
func (v Values) Get(key string) string {
	if vs := v[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

// Has reports whether key was submitted at all.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// FromFiber reads an url-encoded or multipart request body.
func FromFiber(c *fiber.Ctx) (Values, error) {
	contentType := string(c.Request().Header.ContentType())
	mediaType := contentType
	if idx := strings.Index(contentType, ";"); idx != -1 {
		mediaType = strings.TrimSpace(contentType[:idx])
	}

	values := Values{}
	switch {
	case mediaType == mimeURLEncoded:
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			k := string(key)
			values[k] = append(values[k], string(value))
		})
	case strings.HasPrefix(mediaType, mimeMultipart):
		mf, err := c.MultipartForm()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
		}
		for k, vs := range mf.Value {
			values[k] = append(values[k], vs...)
		}
	default:
		return nil, fmt.Errorf("%w: got %q, expected %s or %s", ErrUnsupportedMediaType, mediaType, mimeURLEncoded, mimeMultipart)
	}
	return values, nil
}

// Indexed collects the keys prefix[i].field into an ordered list of records.
// Only the listed fields are accepted. Indices must run 0..n-1 without gaps;
// a missing sub-field of a present index yields "" in that record.
func (v Values) Indexed(prefix string, fields ...string) ([]map[string]string, error) {
	allowed := make(map[string]bool, len(fields))
	for _, f := range fields {
		allowed[f] = true
	}

	byIndex := map[int]map[string]string{}
	for key, vals := range v {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := key[len(prefix):]
		if rest != "" && rest[0] != '[' && rest[0] != '.' {
			// a different key that only shares the prefix, e.g. "exercisesCount"
			continue
		}

		m := indexedKey.FindStringSubmatch(key)
		if m == nil || m[1] != prefix {
			return nil, fmt.Errorf("%w: %q", ErrMalformedKey, key)
		}
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedKey, key)
		}
		if !allowed[m[3]] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, key)
		}

		rec, ok := byIndex[idx]
		if !ok {
			rec = make(map[string]string, len(fields))
			byIndex[idx] = rec
		}
		if len(vals) > 0 {
			rec[m[3]] = strings.TrimSpace(vals[0])
		}
	}

	indices := make([]int, 0, len(byIndex))
	for i := range byIndex {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	out := make([]map[string]string, 0, len(indices))
	for pos, idx := range indices {
		if idx != pos {
			return nil, fmt.Errorf("%w: %s[%d] missing", ErrIndexGap, prefix, pos)
		}
		rec := byIndex[idx]
		for _, f := range fields {
			if _, ok := rec[f]; !ok {
				rec[f] = ""
			}
		}
		out = append(out, rec)
	}
	return out, nil
}
