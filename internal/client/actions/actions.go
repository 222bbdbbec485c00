// Package actions holds the async intents of the CLI: each method
// runs one sync-layer call and dispatches the pending/fulfilled/
// rejected triplet into the state store.
package actions

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/electrodrive/catalog-api/internal/client/api"
	"github.com/electrodrive/catalog-api/internal/client/state"
	"github.com/electrodrive/catalog-api/internal/models"
)

type Actions struct {
	api      *api.Client
	store    *state.Store
	debounce *state.Debouncer
	logger   *logrus.Logger
}

func New(apiClient *api.Client, store *state.Store, logger *logrus.Logger) *Actions {
	a := &Actions{
		api:      apiClient,
		store:    store,
		debounce: state.NewDebouncer(state.DefaultDebounceDelay),
		logger:   logger,
	}

	// The sync layer only reports session expiry; routing back to the
	// login view is the view layer's job, driven off this dispatch.
	apiClient.OnSessionExpired(func() {
		store.Dispatch(state.SessionExpired{})
		store.Dispatch(state.PushNotification{
			Level:   state.NotifyError,
			Message: "session expired, please log in again",
		})
	})

	return a
}

func (a *Actions) notifyError(message string) {
	a.store.Dispatch(state.PushNotification{Level: state.NotifyError, Message: message})
}

func (a *Actions) notifySuccess(message string) {
	a.store.Dispatch(state.PushNotification{Level: state.NotifySuccess, Message: message})
}

// --- auth intents ---

// CheckAuth resolves the persisted token into an identity, if any.
func (a *Actions) CheckAuth(ctx context.Context) error {
	token := a.api.Token()
	if token == "" {
		return nil
	}

	a.store.Dispatch(state.AuthCheckPending{})
	user, err := a.api.Me(ctx)
	if err != nil {
		a.store.Dispatch(state.AuthCheckRejected{Err: err.Error()})
		return err
	}
	a.store.Dispatch(state.AuthCheckFulfilled{User: user, Token: token})
	return nil
}

func (a *Actions) Login(ctx context.Context, email, password string) error {
	a.store.Dispatch(state.LoginPending{})
	user, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.store.Dispatch(state.LoginRejected{Err: err.Error()})
		a.notifyError(err.Error())
		return err
	}
	a.store.Dispatch(state.LoginFulfilled{User: user, Token: a.api.Token()})
	a.notifySuccess("logged in as " + user.Username)
	return nil
}

func (a *Actions) Register(ctx context.Context, username, email, password string) error {
	a.store.Dispatch(state.RegisterPending{})
	user, err := a.api.Register(ctx, username, email, password)
	if err != nil {
		a.store.Dispatch(state.RegisterRejected{Err: err.Error()})
		a.notifyError(err.Error())
		return err
	}
	a.store.Dispatch(state.RegisterFulfilled{User: user, Token: a.api.Token()})
	a.notifySuccess("registered as " + user.Username)
	return nil
}

func (a *Actions) Logout(ctx context.Context) error {
	a.store.Dispatch(state.LogoutPending{})
	if err := a.api.Logout(ctx); err != nil {
		a.store.Dispatch(state.LogoutRejected{Err: err.Error()})
		return err
	}
	a.store.Dispatch(state.LogoutFulfilled{})
	a.notifySuccess("logged out")
	return nil
}

func (a *Actions) CreateAdmin(ctx context.Context, username, email, password string) (*models.UserData, error) {
	user, err := a.api.CreateAdmin(ctx, username, email, password)
	if err != nil {
		a.notifyError(err.Error())
		return nil, err
	}
	a.notifySuccess("admin " + user.Username + " created")
	return user, nil
}

// --- catalog intents ---

// FetchMotors lists motors using the filters and page currently in the
// store. Responses settling out of order are discarded by sequence.
func (a *Actions) FetchMotors(ctx context.Context) error {
	seq := a.store.NextFetchSeq()
	snapshot := a.store.GetState().Catalog

	a.store.Dispatch(state.FetchMotorsPending{Seq: seq})
	result, err := a.api.ListMotors(ctx, &snapshot.Filters, snapshot.Pagination.Page, snapshot.Pagination.Limit)
	if err != nil {
		a.store.Dispatch(state.FetchMotorsRejected{Seq: seq, Err: err.Error()})
		return err
	}
	a.store.Dispatch(state.FetchMotorsFulfilled{
		Seq:        seq,
		Motors:     result.Data,
		Total:      result.Total,
		Pagination: result.Pagination,
	})
	return nil
}

func (a *Actions) FetchMotor(ctx context.Context, id string) error {
	a.store.Dispatch(state.FetchMotorPending{})
	motor, err := a.api.GetMotor(ctx, id)
	if err != nil {
		a.store.Dispatch(state.FetchMotorRejected{Err: err.Error()})
		return err
	}
	a.store.Dispatch(state.FetchMotorFulfilled{Motor: motor})
	return nil
}

func (a *Actions) CreateMotor(ctx context.Context, input *models.MotorInput) (*models.Motor, error) {
	a.store.Dispatch(state.CreateMotorPending{})
	motor, err := a.api.CreateMotor(ctx, input)
	if err != nil {
		a.store.Dispatch(state.CreateMotorRejected{Err: err.Error()})
		a.notifyError(err.Error())
		return nil, err
	}
	a.store.Dispatch(state.CreateMotorFulfilled{Motor: motor})
	a.notifySuccess("motor created")
	return motor, nil
}

func (a *Actions) UpdateMotor(ctx context.Context, id string, input *models.MotorInput) (*models.Motor, error) {
	a.store.Dispatch(state.UpdateMotorPending{})
	motor, err := a.api.UpdateMotor(ctx, id, input)
	if err != nil {
		a.store.Dispatch(state.UpdateMotorRejected{Err: err.Error()})
		a.notifyError(err.Error())
		return nil, err
	}
	a.store.Dispatch(state.UpdateMotorFulfilled{Motor: motor})
	a.notifySuccess("motor updated")
	return motor, nil
}

func (a *Actions) DeleteMotor(ctx context.Context, id string) error {
	a.store.Dispatch(state.DeleteMotorPending{})
	if err := a.api.DeleteMotor(ctx, id); err != nil {
		a.store.Dispatch(state.DeleteMotorRejected{Err: err.Error()})
		a.notifyError(err.Error())
		return err
	}
	a.store.Dispatch(state.DeleteMotorFulfilled{ID: id})
	a.notifySuccess("motor deleted")
	return nil
}

func (a *Actions) SearchMotors(ctx context.Context, keyword string) ([]models.Motor, error) {
	motors, err := a.api.SearchMotors(ctx, keyword)
	if err != nil {
		a.notifyError(err.Error())
		return nil, err
	}
	return motors, nil
}

// --- filter intents, each triggers a refetch ---

// SetSearch debounces keystrokes: the dispatch and refetch run only
// after the input has been quiet for the debounce delay.
func (a *Actions) SetSearch(ctx context.Context, search string) {
	a.debounce.Trigger(func() {
		a.store.Dispatch(state.SetSearch{Search: search})
		if err := a.FetchMotors(ctx); err != nil {
			a.logger.WithError(err).Debug("Search refetch failed")
		}
	})
}

func (a *Actions) SetPage(ctx context.Context, page int) error {
	a.store.Dispatch(state.SetPage{Page: page})
	return a.FetchMotors(ctx)
}

func (a *Actions) SetLimit(ctx context.Context, limit int) error {
	a.store.Dispatch(state.SetLimit{Limit: limit})
	return a.FetchMotors(ctx)
}

func (a *Actions) SetMinPower(ctx context.Context, minPower *float64) error {
	a.store.Dispatch(state.SetMinPower{MinPower: minPower})
	return a.FetchMotors(ctx)
}

func (a *Actions) SetMaxPower(ctx context.Context, maxPower *float64) error {
	a.store.Dispatch(state.SetMaxPower{MaxPower: maxPower})
	return a.FetchMotors(ctx)
}

func (a *Actions) SetAvailable(ctx context.Context, available *bool) error {
	a.store.Dispatch(state.SetAvailable{Available: available})
	return a.FetchMotors(ctx)
}

func (a *Actions) ResetFilters(ctx context.Context) error {
	a.store.Dispatch(state.ResetFilters{})
	return a.FetchMotors(ctx)
}

// --- upload intents ---

func (a *Actions) UploadImage(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	url, err := a.api.UploadImage(ctx, fileName, contentType, data)
	if err != nil {
		a.notifyError(err.Error())
		return "", err
	}
	a.notifySuccess("image uploaded")
	return url, nil
}

func (a *Actions) DeleteImage(ctx context.Context, fileName string) error {
	if err := a.api.DeleteImage(ctx, fileName); err != nil {
		a.notifyError(err.Error())
		return err
	}
	a.notifySuccess("image deleted")
	return nil
}
