package state

import (
	"github.com/electrodrive/catalog-api/internal/models"
)

// CatalogState holds the motor listing, its filters and pagination,
// and the selected motor's details.
type CatalogState struct {
	Motors       []models.Motor
	MotorDetails *models.Motor
	Loading      bool
	Error        string
	Total        int
	Pagination   models.Pagination
	Filters      models.MotorFilter

	// fetchSeq is the sequence of the most recent fetch; settle
	// actions carrying an older sequence are discarded as stale.
	fetchSeq uint64
}

func initialCatalogState() CatalogState {
	return CatalogState{
		Motors: []models.Motor{},
		Pagination: models.Pagination{
			Pages: 1,
			Page:  1,
			Limit: 10,
		},
	}
}

// Filter and page setters. Every setter except SetPage resets the page
// to 1 so the next fetch starts from the first page of the new view.

type SetPage struct{ Page int }
type SetLimit struct{ Limit int }
type SetSearch struct{ Search string }
type SetMinPower struct{ MinPower *float64 }
type SetMaxPower struct{ MaxPower *float64 }
type SetAvailable struct{ Available *bool }
type ResetFilters struct{}
type ClearMotorDetails struct{}
type ClearCatalogError struct{}

// Fetch lifecycle actions. Seq ties the settle to its pending fetch.

type FetchMotorsPending struct{ Seq uint64 }
type FetchMotorsFulfilled struct {
	Seq        uint64
	Motors     []models.Motor
	Total      int
	Pagination models.Pagination
}
type FetchMotorsRejected struct {
	Seq uint64
	Err string
}

type FetchMotorPending struct{}
type FetchMotorFulfilled struct{ Motor *models.Motor }
type FetchMotorRejected struct{ Err string }

type CreateMotorPending struct{}
type CreateMotorFulfilled struct{ Motor *models.Motor }
type CreateMotorRejected struct{ Err string }

type UpdateMotorPending struct{}
type UpdateMotorFulfilled struct{ Motor *models.Motor }
type UpdateMotorRejected struct{ Err string }

type DeleteMotorPending struct{}
type DeleteMotorFulfilled struct{ ID string }
type DeleteMotorRejected struct{ Err string }

func (SetPage) actionName() string              { return "catalog/setPage" }
func (SetLimit) actionName() string             { return "catalog/setLimit" }
func (SetSearch) actionName() string            { return "catalog/setSearch" }
func (SetMinPower) actionName() string          { return "catalog/setMinPower" }
func (SetMaxPower) actionName() string          { return "catalog/setMaxPower" }
func (SetAvailable) actionName() string         { return "catalog/setAvailable" }
func (ResetFilters) actionName() string         { return "catalog/resetFilters" }
func (ClearMotorDetails) actionName() string    { return "catalog/clearDetails" }
func (ClearCatalogError) actionName() string    { return "catalog/clearError" }
func (FetchMotorsPending) actionName() string   { return "catalog/fetch/pending" }
func (FetchMotorsFulfilled) actionName() string { return "catalog/fetch/fulfilled" }
func (FetchMotorsRejected) actionName() string  { return "catalog/fetch/rejected" }
func (FetchMotorPending) actionName() string    { return "catalog/fetchOne/pending" }
func (FetchMotorFulfilled) actionName() string  { return "catalog/fetchOne/fulfilled" }
func (FetchMotorRejected) actionName() string   { return "catalog/fetchOne/rejected" }
func (CreateMotorPending) actionName() string   { return "catalog/create/pending" }
func (CreateMotorFulfilled) actionName() string { return "catalog/create/fulfilled" }
func (CreateMotorRejected) actionName() string  { return "catalog/create/rejected" }
func (UpdateMotorPending) actionName() string   { return "catalog/update/pending" }
func (UpdateMotorFulfilled) actionName() string { return "catalog/update/fulfilled" }
func (UpdateMotorRejected) actionName() string  { return "catalog/update/rejected" }
func (DeleteMotorPending) actionName() string   { return "catalog/delete/pending" }
func (DeleteMotorFulfilled) actionName() string { return "catalog/delete/fulfilled" }
func (DeleteMotorRejected) actionName() string  { return "catalog/delete/rejected" }

func reduceCatalog(s CatalogState, action Action) CatalogState {
	switch a := action.(type) {
	case SetPage:
		s.Pagination.Page = a.Page
	case SetLimit:
		s.Pagination.Limit = a.Limit
		s.Pagination.Page = 1
	case SetSearch:
		s.Filters.Search = a.Search
		s.Pagination.Page = 1
	case SetMinPower:
		s.Filters.MinPower = a.MinPower
		s.Pagination.Page = 1
	case SetMaxPower:
		s.Filters.MaxPower = a.MaxPower
		s.Pagination.Page = 1
	case SetAvailable:
		s.Filters.Available = a.Available
		s.Pagination.Page = 1
	case ResetFilters:
		s.Filters = models.MotorFilter{}
		s.Pagination.Page = 1
	case ClearMotorDetails:
		s.MotorDetails = nil
	case ClearCatalogError:
		s.Error = ""

	case FetchMotorsPending:
		s.Loading = true
		s.Error = ""
	case FetchMotorsFulfilled:
		if a.Seq < s.fetchSeq {
			break // stale response, a newer fetch is in flight
		}
		s.Loading = false
		s.Motors = a.Motors
		s.Total = a.Total
		s.Pagination.Pages = a.Pagination.Pages
	case FetchMotorsRejected:
		if a.Seq < s.fetchSeq {
			break
		}
		s.Loading = false
		s.Error = a.Err

	case FetchMotorPending:
		s.Loading = true
		s.Error = ""
	case FetchMotorFulfilled:
		s.Loading = false
		s.MotorDetails = a.Motor
	case FetchMotorRejected:
		s.Loading = false
		s.Error = a.Err

	case CreateMotorPending:
		s.Loading = true
		s.Error = ""
	case CreateMotorFulfilled:
		s.Loading = false
		if a.Motor != nil {
			s.Motors = append(append([]models.Motor{}, s.Motors...), *a.Motor)
		}
	case CreateMotorRejected:
		s.Loading = false
		s.Error = a.Err

	case UpdateMotorPending:
		s.Loading = true
		s.Error = ""
	case UpdateMotorFulfilled:
		s.Loading = false
		if a.Motor != nil {
			motors := make([]models.Motor, len(s.Motors))
			copy(motors, s.Motors)
			for i := range motors {
				if motors[i].ID == a.Motor.ID {
					motors[i] = *a.Motor
				}
			}
			s.Motors = motors
			s.MotorDetails = a.Motor
		}
	case UpdateMotorRejected:
		s.Loading = false
		s.Error = a.Err

	case DeleteMotorPending:
		s.Loading = true
		s.Error = ""
	case DeleteMotorFulfilled:
		s.Loading = false
		motors := make([]models.Motor, 0, len(s.Motors))
		for i := range s.Motors {
			if s.Motors[i].ID != a.ID {
				motors = append(motors, s.Motors[i])
			}
		}
		s.Motors = motors
	case DeleteMotorRejected:
		s.Loading = false
		s.Error = a.Err
	}
	return s
}
