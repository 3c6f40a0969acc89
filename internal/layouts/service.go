package layouts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"seatgrid/internal/shared/constants"
	"seatgrid/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrLayoutNotFound     = errors.New("layout not found")
	ErrLayoutNotDraft     = errors.New("layout is not in draft status")
	ErrLayoutNotPublished = errors.New("layout is not published")
	ErrLayoutEmpty        = errors.New("layout has no seats")
	ErrDuplicateSeatUID   = errors.New("layout contains duplicate seat identifiers")
)

type Service interface {
	CreateLayout(tenantID uuid.UUID, req CreateLayoutRequest) (*LayoutResponse, error)
	GetLayout(ctx context.Context, tenantID, id uuid.UUID) (*LayoutResponse, error)
	UpdateLayout(tenantID, id uuid.UUID, req UpdateLayoutRequest) (*LayoutResponse, error)
	PublishLayout(tenantID, id uuid.UUID) (*LayoutResponse, error)
	ArchiveLayout(tenantID, id uuid.UUID) (*LayoutResponse, error)
	CloneLayout(tenantID, id uuid.UUID, req CloneLayoutRequest) (*LayoutResponse, error)
	ListLayouts(tenantID uuid.UUID, query LayoutListQuery) (*PaginatedLayouts, error)

	// GetPublishedLayout loads the full seat tree of a published layout. It is
	// the entry point snapshot materialization goes through; drafts are refused.
	GetPublishedLayout(tenantID, id uuid.UUID) (*SeatingLayout, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService}
}

func (s *service) CreateLayout(tenantID uuid.UUID, req CreateLayoutRequest) (*LayoutResponse, error) {
	layout, err := buildLayoutTree(tenantID, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(layout); err != nil {
		return nil, fmt.Errorf("failed to create layout: %w", err)
	}

	response := s.toResponse(layout, true)
	return &response, nil
}

// buildLayoutTree assembles the nested model from the request, deriving each
// seat's UID from its labels and rejecting collisions up front.
func buildLayoutTree(tenantID uuid.UUID, req CreateLayoutRequest) (*SeatingLayout, error) {
	layout := &SeatingLayout{
		TenantID:  tenantID,
		Name:      strings.TrimSpace(req.Name),
		VenueName: strings.TrimSpace(req.VenueName),
		Status:    StatusDraft,
	}

	seenUIDs := make(map[string]struct{})

	for _, sectionReq := range req.Sections {
		section := LayoutSection{
			Label:     strings.TrimSpace(sectionReq.Label),
			SortOrder: sectionReq.SortOrder,
		}
		if sectionReq.DefaultTierID != nil {
			tierID, err := uuid.Parse(*sectionReq.DefaultTierID)
			if err != nil {
				return nil, fmt.Errorf("invalid default tier ID for section %s: %w", sectionReq.Label, err)
			}
			section.DefaultTierID = &tierID
		}

		for _, rowReq := range sectionReq.Rows {
			row := LayoutRow{
				Label:     strings.TrimSpace(rowReq.Label),
				SortOrder: rowReq.SortOrder,
			}

			for _, seatReq := range rowReq.Seats {
				seatUID := BuildSeatUID(section.Label, row.Label, seatReq.Label)
				if _, exists := seenUIDs[seatUID]; exists {
					return nil, fmt.Errorf("%w: %s", ErrDuplicateSeatUID, seatUID)
				}
				seenUIDs[seatUID] = struct{}{}

				seatType := SeatType(seatReq.SeatType)
				if seatType == "" {
					seatType = SeatTypeStandard
				}

				seat := LayoutSeat{
					Label:    strings.TrimSpace(seatReq.Label),
					SeatUID:  seatUID,
					SeatType: seatType,
					PosX:     seatReq.PosX,
					PosY:     seatReq.PosY,
				}
				if seatReq.PriceTierID != nil {
					tierID, err := uuid.Parse(*seatReq.PriceTierID)
					if err != nil {
						return nil, fmt.Errorf("invalid price tier ID for seat %s: %w", seatUID, err)
					}
					seat.PriceTierID = &tierID
				}

				row.Seats = append(row.Seats, seat)
			}

			section.Rows = append(section.Rows, row)
		}

		layout.Sections = append(layout.Sections, section)
	}

	return layout, nil
}

func (s *service) GetLayout(ctx context.Context, tenantID, id uuid.UUID) (*LayoutResponse, error) {
	cacheKey := constants.BuildLayoutKey(id.String())

	var cached LayoutResponse
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil && cached.TenantID == tenantID.String() {
		return &cached, nil
	}

	layout, err := s.repo.GetByIDWithSeats(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLayoutNotFound
		}
		return nil, fmt.Errorf("failed to get layout: %w", err)
	}

	response := s.toResponse(layout, true)

	// Only published layouts are cached; drafts change under the editor.
	if layout.Status == StatusPublished {
		_ = s.cache.Set(ctx, cacheKey, response, constants.TTL_LAYOUT)
	}

	return &response, nil
}

func (s *service) UpdateLayout(tenantID, id uuid.UUID, req UpdateLayoutRequest) (*LayoutResponse, error) {
	layout, err := s.repo.GetByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLayoutNotFound
		}
		return nil, fmt.Errorf("failed to get layout: %w", err)
	}

	if layout.Status != StatusDraft {
		return nil, ErrLayoutNotDraft
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.VenueName != nil {
		updates["venue_name"] = strings.TrimSpace(*req.VenueName)
	}

	if len(updates) == 0 {
		return nil, errors.New("no fields to update")
	}

	updated, err := s.repo.Update(tenantID, id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update layout: %w", err)
	}

	response := s.toResponse(updated, false)
	return &response, nil
}

func (s *service) PublishLayout(tenantID, id uuid.UUID) (*LayoutResponse, error) {
	layout, err := s.repo.GetByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLayoutNotFound
		}
		return nil, fmt.Errorf("failed to get layout: %w", err)
	}

	if layout.Status != StatusDraft {
		return nil, ErrLayoutNotDraft
	}

	seatCount, err := s.repo.CountSeats(id)
	if err != nil {
		return nil, fmt.Errorf("failed to count layout seats: %w", err)
	}
	if seatCount == 0 {
		return nil, ErrLayoutEmpty
	}

	now := time.Now().UTC()
	updated, err := s.repo.Update(tenantID, id, map[string]interface{}{
		"status":       StatusPublished,
		"published_at": now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish layout: %w", err)
	}

	response := s.toResponse(updated, false)
	return &response, nil
}

func (s *service) ArchiveLayout(tenantID, id uuid.UUID) (*LayoutResponse, error) {
	layout, err := s.repo.GetByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLayoutNotFound
		}
		return nil, fmt.Errorf("failed to get layout: %w", err)
	}

	if layout.Status != StatusPublished {
		return nil, ErrLayoutNotPublished
	}

	updated, err := s.repo.Update(tenantID, id, map[string]interface{}{
		"status": StatusArchived,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to archive layout: %w", err)
	}

	_ = s.cache.Delete(context.Background(), constants.BuildLayoutKey(id.String()))

	response := s.toResponse(updated, false)
	return &response, nil
}

// CloneLayout deep-copies a layout into a new DRAFT. IDs are regenerated by
// the database; seat UIDs are recomputed from the copied labels so later label
// edits on the clone produce fresh identifiers.
func (s *service) CloneLayout(tenantID, id uuid.UUID, req CloneLayoutRequest) (*LayoutResponse, error) {
	source, err := s.repo.GetByIDWithSeats(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLayoutNotFound
		}
		return nil, fmt.Errorf("failed to get layout: %w", err)
	}

	clone := &SeatingLayout{
		TenantID:   tenantID,
		Name:       strings.TrimSpace(req.Name),
		VenueName:  source.VenueName,
		Status:     StatusDraft,
		ClonedFrom: &source.ID,
	}

	for _, section := range source.Sections {
		newSection := LayoutSection{
			Label:         section.Label,
			SortOrder:     section.SortOrder,
			DefaultTierID: section.DefaultTierID,
		}
		for _, row := range section.Rows {
			newRow := LayoutRow{
				Label:     row.Label,
				SortOrder: row.SortOrder,
			}
			for _, seat := range row.Seats {
				newRow.Seats = append(newRow.Seats, LayoutSeat{
					Label:       seat.Label,
					SeatUID:     BuildSeatUID(section.Label, row.Label, seat.Label),
					SeatType:    seat.SeatType,
					PriceTierID: seat.PriceTierID,
					PosX:        seat.PosX,
					PosY:        seat.PosY,
				})
			}
			newSection.Rows = append(newSection.Rows, newRow)
		}
		clone.Sections = append(clone.Sections, newSection)
	}

	if err := s.repo.Create(clone); err != nil {
		return nil, fmt.Errorf("failed to clone layout: %w", err)
	}

	response := s.toResponse(clone, true)
	return &response, nil
}

func (s *service) ListLayouts(tenantID uuid.UUID, query LayoutListQuery) (*PaginatedLayouts, error) {
	layouts, totalCount, err := s.repo.GetAll(tenantID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 20
	}

	responses := make([]LayoutResponse, 0, len(layouts))
	for i := range layouts {
		responses = append(responses, s.toResponse(&layouts[i], false))
	}

	return &PaginatedLayouts{
		Layouts:    responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}, nil
}

func (s *service) GetPublishedLayout(tenantID, id uuid.UUID) (*SeatingLayout, error) {
	layout, err := s.repo.GetByIDWithSeats(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLayoutNotFound
		}
		return nil, fmt.Errorf("failed to get layout: %w", err)
	}

	if layout.Status != StatusPublished {
		return nil, ErrLayoutNotPublished
	}

	return layout, nil
}

func (s *service) toResponse(layout *SeatingLayout, includeSeats bool) LayoutResponse {
	response := LayoutResponse{
		ID:          layout.ID.String(),
		TenantID:    layout.TenantID.String(),
		Name:        layout.Name,
		VenueName:   layout.VenueName,
		Status:      layout.Status,
		PublishedAt: layout.PublishedAt,
		CreatedAt:   layout.CreatedAt,
		UpdatedAt:   layout.UpdatedAt,
	}
	if layout.ClonedFrom != nil {
		clonedFrom := layout.ClonedFrom.String()
		response.ClonedFrom = &clonedFrom
	}

	if !includeSeats {
		return response
	}

	for _, section := range layout.Sections {
		sectionResp := SectionResponse{
			ID:        section.ID.String(),
			Label:     section.Label,
			SortOrder: section.SortOrder,
		}
		if section.DefaultTierID != nil {
			tierID := section.DefaultTierID.String()
			sectionResp.DefaultTierID = &tierID
		}

		for _, row := range section.Rows {
			rowResp := RowResponse{
				ID:        row.ID.String(),
				Label:     row.Label,
				SortOrder: row.SortOrder,
			}
			for _, seat := range row.Seats {
				seatResp := SeatResponse{
					ID:       seat.ID.String(),
					Label:    seat.Label,
					SeatUID:  seat.SeatUID,
					SeatType: string(seat.SeatType),
					PosX:     seat.PosX,
					PosY:     seat.PosY,
				}
				if seat.PriceTierID != nil {
					tierID := seat.PriceTierID.String()
					seatResp.PriceTierID = &tierID
				}
				rowResp.Seats = append(rowResp.Seats, seatResp)
				response.SeatCount++
			}
			sectionResp.Rows = append(sectionResp.Rows, rowResp)
		}
		response.Sections = append(response.Sections, sectionResp)
	}

	return response
}
