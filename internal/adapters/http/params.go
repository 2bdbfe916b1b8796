package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/samirrijal/quickcash/internal/core/domain"
)

// HeaderUserEmail identifies the acting user. Authentication happens
// upstream of this service.
const HeaderUserEmail = "X-User-Email"

const maxRadiusKm = 500

// actingEmail returns the caller's email or writes a 401.
func actingEmail(c *fiber.Ctx) (string, bool) {
	email := strings.TrimSpace(c.Get(HeaderUserEmail))
	if email == "" {
		_ = errUnauthorized(c, HeaderUserEmail+" header is required")
		return "", false
	}
	return email, true
}

// queryCenter parses the lat/lon query pair. Both absent yields nil; a half
// pair or an out-of-range value is an error. (0, 0) is a valid position.
func queryCenter(c *fiber.Ctx) (*domain.GeoPoint, error) {
	rawLat, rawLon := c.Query("lat"), c.Query("lon")
	if rawLat == "" && rawLon == "" {
		return nil, nil
	}
	if rawLat == "" || rawLon == "" {
		return nil, fmt.Errorf("lat and lon must be given together")
	}
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("lat must be a number between -90 and 90")
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("lon must be a number between -180 and 180")
	}
	return &domain.GeoPoint{Lat: lat, Lon: lon}, nil
}

// queryRadius parses radius_km, falling back to def.
func queryRadius(c *fiber.Ctx, def float64) (float64, error) {
	raw := c.Query("radius_km")
	if raw == "" {
		return def, nil
	}
	r, err := strconv.ParseFloat(raw, 64)
	if err != nil || r < 0 || r > maxRadiusKm {
		return 0, fmt.Errorf("radius_km must be between 0 and %d", maxRadiusKm)
	}
	return r, nil
}

// PaginatedResponse is the envelope of every list endpoint.
type PaginatedResponse struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the page returned out of Total items.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// setLinkHeaders writes RFC 8288 first/prev/next/last links. Filters such as
// lat, lon or query are carried over so the links reproduce the same search.
func setLinkHeaders(c *fiber.Ctx, p Pagination) {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	c.Context().QueryArgs().CopyTo(args)

	link := func(offset int, rel string) string {
		args.SetUint("offset", offset)
		args.SetUint("limit", p.Limit)
		return fmt.Sprintf(`<%s?%s>; rel="%s"`, c.Path(), args.String(), rel)
	}

	links := []string{link(0, "first")}
	if p.Offset > 0 {
		links = append(links, link(max(p.Offset-p.Limit, 0), "prev"))
	}
	if p.Offset+p.Limit < p.Total {
		links = append(links, link(p.Offset+p.Limit, "next"))
	}
	links = append(links, link(max(p.Total-p.Limit, 0), "last"))

	c.Set("Link", strings.Join(links, ", "))
}

// paginate slices items by the offset/limit query parameters.
func paginate[T any](c *fiber.Ctx, items []T) PaginatedResponse {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	total := len(items)
	page := []T{}
	if offset < total {
		end := min(offset+limit, total)
		page = items[offset:end]
	}

	pg := Pagination{Offset: offset, Limit: limit, Total: total}
	setLinkHeaders(c, pg)
	return PaginatedResponse{Data: page, Pagination: pg}
}
