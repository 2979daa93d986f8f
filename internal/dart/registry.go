package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/guttosm/dartpulse/internal/domain/models"
)

var zipMagic = []byte("PK\x03\x04")

// registryEntry mirrors one <list> element of corpCode.xml. Absent children
// decode to "", which is the uniform null policy for every field.
type registryEntry struct {
	CorpCode   string `xml:"corp_code"`
	CorpName   string `xml:"corp_name"`
	StockCode  string `xml:"stock_code"`
	ModifyDate string `xml:"modify_date"`
}

func (e registryEntry) record() models.CorporateRecord {
	return models.CorporateRecord{
		CorpCode:   e.CorpCode,
		CorpName:   e.CorpName,
		StockCode:  strings.TrimSpace(e.StockCode),
		ModifyDate: e.ModifyDate,
	}
}

// FetchRegistry downloads the full corporate identifier registry.
//
// Behavior:
//   - Sends crtfc_key when a credential is configured; the registry itself can be requested without one.
//   - Accepts either a plain XML document or a ZIP archive wrapping it (the live endpoint serves CORPCODE.xml zipped).
//   - Transport failures / non-2xx: ErrNetwork. Malformed XML or ZIP: ErrParse.
//   - An error envelope (<status> other than 000) with no records: *APIError.
//   - Zero records: ErrNoRecords.
func (c *Client) FetchRegistry(ctx context.Context) ([]models.CorporateRecord, error) {
	var query url.Values
	if c.apiKey != "" {
		query = url.Values{"crtfc_key": {c.apiKey}}
	}

	c.log.Info().Msg("downloading corporate registry")
	body, err := c.get(ctx, registryPath, query)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Int("bytes", len(body)).Msg("registry downloaded")

	doc, err := openRegistry(body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = doc.Close() }()

	records, err := ParseRegistry(doc)
	if err != nil {
		return nil, err
	}
	c.log.Info().Int("records", len(records)).Msg("registry parsed")
	return records, nil
}

// openRegistry returns a reader over the XML document, unwrapping a ZIP archive if needed.
func openRegistry(body []byte) (io.ReadCloser, error) {
	if !bytes.HasPrefix(body, zipMagic) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("%w: open registry archive: %w", ErrParse, err)
	}
	for _, f := range zr.File {
		if !strings.EqualFold(pathExt(f.Name), ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s in archive: %w", ErrParse, f.Name, err)
		}
		return rc, nil
	}
	return nil, fmt.Errorf("%w: registry archive has no .xml entry", ErrParse)
}

func pathExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}

// ParseRegistry streams a corpCode.xml document and returns one record per
// <list> element found directly under the root element.
//
// The ticker (stock_code) is trimmed; every other field is kept verbatim.
func ParseRegistry(r io.Reader) ([]models.CorporateRecord, error) {
	dec := xml.NewDecoder(r)

	var (
		records []models.CorporateRecord
		depth   int
		rooted  bool
		status  string
		message string
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: registry xml: %w", ErrParse, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rooted && depth == 0 {
				return nil, fmt.Errorf("%w: registry xml: element <%s> after document element", ErrParse, t.Name.Local)
			}
			depth++
			if depth == 1 {
				rooted = true
				continue
			}
			if depth != 2 {
				continue
			}
			switch t.Name.Local {
			case "list":
				var e registryEntry
				if err := dec.DecodeElement(&e, &t); err != nil {
					return nil, fmt.Errorf("%w: registry entry %d: %w", ErrParse, len(records)+1, err)
				}
				records = append(records, e.record())
				depth--
			case "status":
				if err := dec.DecodeElement(&status, &t); err != nil {
					return nil, fmt.Errorf("%w: registry status: %w", ErrParse, err)
				}
				depth--
			case "message":
				if err := dec.DecodeElement(&message, &t); err != nil {
					return nil, fmt.Errorf("%w: registry message: %w", ErrParse, err)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		case xml.CharData:
			if rooted && depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("%w: registry xml: text after document element", ErrParse)
			}
		}
	}

	if !rooted {
		return nil, fmt.Errorf("%w: registry xml: empty document", ErrParse)
	}
	if len(records) == 0 {
		status = strings.TrimSpace(status)
		if status != "" && status != StatusOK {
			return nil, newAPIError(status, strings.TrimSpace(message))
		}
		return nil, ErrNoRecords
	}
	return records, nil
}

// FindByName returns every record whose corp_name equals name exactly, in registry order.
func FindByName(records []models.CorporateRecord, name string) []models.CorporateRecord {
	var out []models.CorporateRecord
	for _, r := range records {
		if r.CorpName == name {
			out = append(out, r)
		}
	}
	return out
}
