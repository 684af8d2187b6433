package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"pgpathfinder/pkg/imagecheck"

	"github.com/google/uuid"
)

// ImageUpload is one file for UploadImages. ContentType is sniffed from
// Data when empty.
type ImageUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

type page[T any] struct {
	Data []T `json:"data"`
}

// Browse runs the public search. It does not need a session.
func (s *Session) Browse(ctx context.Context, filter *ListingSearchFilter) (*BrowseResult, error) {
	return s.client.Browse(ctx, filter)
}

// GetListing returns the full record to its owner or an admin and the
// public view to everyone else. Hidden listings are 404 for non-owners.
func (s *Session) GetListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	r := request{method: http.MethodGet, path: "/v1/listings/" + id.String()}

	var listing Listing
	var err error
	if s.IsAuthenticated() {
		err = s.authed(ctx, r, &listing)
	} else {
		err = s.client.do(ctx, r, &listing)
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetContactInfo returns ErrSignInRequired without contacting the server
// when there is no session.
func (s *Session) GetContactInfo(ctx context.Context, listingID uuid.UUID) (*ContactInfo, error) {
	if !s.IsAuthenticated() {
		return nil, ErrSignInRequired
	}

	var info ContactInfo
	err := s.authed(ctx, request{method: http.MethodGet, path: "/v1/listings/" + listingID.String() + "/contact"}, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *Session) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	var summary DashboardSummary
	if err := s.authed(ctx, request{method: http.MethodGet, path: "/v1/dashboard"}, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Owner operations

func (s *Session) MyListings(ctx context.Context) ([]*Listing, error) {
	var listings []*Listing
	if err := s.authed(ctx, request{method: http.MethodGet, path: "/v1/owner/listings"}, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// CreateListing submits a new listing. It starts pending review.
func (s *Session) CreateListing(ctx context.Context, input *ListingInput) (*Listing, error) {
	var listing Listing
	if err := s.authed(ctx, request{method: http.MethodPost, path: "/v1/owner/listings", body: input}, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (s *Session) UpdateListing(ctx context.Context, id uuid.UUID, input *ListingInput) (*Listing, error) {
	var listing Listing
	err := s.authed(ctx, request{method: http.MethodPut, path: "/v1/owner/listings/" + id.String(), body: input}, &listing)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (s *Session) SetListingActive(ctx context.Context, id uuid.UUID, active bool) (*Listing, error) {
	var listing Listing
	err := s.authed(ctx, request{
		method: http.MethodPatch,
		path:   "/v1/owner/listings/" + id.String() + "/active",
		body:   map[string]bool{"is_active": active},
	}, &listing)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (s *Session) DeleteListing(ctx context.Context, id uuid.UUID) error {
	return s.authed(ctx, request{method: http.MethodDelete, path: "/v1/owner/listings/" + id.String()}, nil)
}

// UploadImages checks every file against the upload rules before sending
// anything. The server applies the same rules and the per-listing total.
func (s *Session) UploadImages(ctx context.Context, listingID uuid.UUID, files []ImageUpload) ([]ListingImage, error) {
	if !s.IsAuthenticated() {
		return nil, ErrSignInRequired
	}
	if len(files) == 0 {
		return nil, imagecheck.ErrEmpty
	}
	if err := imagecheck.CheckCount(0, len(files)); err != nil {
		return nil, err
	}

	for i := range files {
		if files[i].ContentType == "" && len(files[i].Data) > 0 {
			files[i].ContentType = http.DetectContentType(files[i].Data)
		}
		if err := imagecheck.Validate(files[i].Name, int64(len(files[i].Data)), files[i].ContentType); err != nil {
			return nil, err
		}
	}

	body, contentType, err := imageForm(files)
	if err != nil {
		return nil, err
	}

	var images []ListingImage
	err = s.authed(ctx, request{
		method:      http.MethodPost,
		path:        "/v1/owner/listings/" + listingID.String() + "/images",
		raw:         body,
		contentType: contentType,
	}, &images)
	if err != nil {
		return nil, err
	}
	return images, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func imageForm(files []ImageUpload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			imageFormField, quoteEscaper.Replace(f.Name)))
		h.Set("Content-Type", f.ContentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to build upload form: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("failed to build upload form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to build upload form: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

const imageFormField = "images"

func (s *Session) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	return s.authed(ctx, request{method: http.MethodDelete, path: "/v1/owner/images/" + imageID.String()}, nil)
}

// Admin operations

// AdminListings lists every listing, optionally narrowed to one status
func (s *Session) AdminListings(ctx context.Context, status string) ([]*Listing, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}

	var listings []*Listing
	if err := s.authed(ctx, request{method: http.MethodGet, path: "/v1/admin/listings", query: q}, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *Session) PendingListings(ctx context.Context) ([]*Listing, error) {
	var listings []*Listing
	if err := s.authed(ctx, request{method: http.MethodGet, path: "/v1/admin/listings/pending"}, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *Session) ApproveListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	return s.review(ctx, id, "approve")
}

func (s *Session) RejectListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	return s.review(ctx, id, "reject")
}

func (s *Session) review(ctx context.Context, id uuid.UUID, verb string) (*Listing, error) {
	var listing Listing
	err := s.authed(ctx, request{method: http.MethodPost, path: "/v1/admin/listings/" + id.String() + "/" + verb}, &listing)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (s *Session) AdminDeleteListing(ctx context.Context, id uuid.UUID) error {
	return s.authed(ctx, request{method: http.MethodDelete, path: "/v1/admin/listings/" + id.String()}, nil)
}

func (s *Session) ListUsers(ctx context.Context, role string, limit, offset int) ([]*Profile, error) {
	q := url.Values{}
	if role != "" {
		q.Set("role", role)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}

	var result page[*Profile]
	if err := s.authed(ctx, request{method: http.MethodGet, path: "/v1/admin/users", query: q}, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

func (s *Session) SetRole(ctx context.Context, userID uuid.UUID, role string) (*Profile, error) {
	var profile Profile
	err := s.authed(ctx, request{
		method: http.MethodPatch,
		path:   "/v1/admin/users/" + userID.String() + "/role",
		body:   map[string]string{"role": role},
	}, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Session) AuditLogs(ctx context.Context, filters *AuditLogFilters) ([]*AuditLog, error) {
	q := url.Values{}
	if filters != nil {
		set := func(key string, v *string) {
			if v != nil && *v != "" {
				q.Set(key, *v)
			}
		}
		set("action", filters.Action)
		set("table_name", filters.TableName)
		set("user_role", filters.UserRole)
		set("search", filters.Search)
		if filters.Limit > 0 {
			q.Set("limit", strconv.Itoa(filters.Limit))
		}
		if filters.Offset > 0 {
			q.Set("offset", strconv.Itoa(filters.Offset))
		}
	}

	var result page[*AuditLog]
	if err := s.authed(ctx, request{method: http.MethodGet, path: "/v1/admin/audit-logs", query: q}, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}
