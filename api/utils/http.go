// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/staker/reverts"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	if e.cause == nil {
		return http.StatusText(e.status)
	}
	return e.cause.Error()
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error, field string) error {
	return &httpError{
		cause:  errors.WithMessage(cause, field),
		status: http.StatusBadRequest,
	}
}

// Forbidden convenience method to create http forbidden error.
func Forbidden(cause error, msg string) error {
	return &httpError{
		cause:  errors.WithMessage(cause, msg),
		status: http.StatusForbidden,
	}
}

// NotFound convenience method to create http not found error.
func NotFound(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusNotFound,
	}
}

// RevertStatus returns the http status code a rejected staking operation is reported with.
func RevertStatus(kind reverts.Kind) int {
	switch kind {
	case reverts.KindUnauthorized:
		return http.StatusForbidden
	case reverts.KindAlreadyInitialized:
		return http.StatusConflict
	case reverts.KindPoolNotInitialized,
		reverts.KindNoActiveStake,
		reverts.KindStakingPeriodNotComplete:
		return http.StatusPreconditionFailed
	case reverts.KindInsufficientFunds, reverts.KindTransferFailed:
		return http.StatusPaymentRequired
	case reverts.KindInvalidAmount, reverts.KindOverflow:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Revert wraps a revert error into an http error. Any other error is returned as is.
func Revert(err error) error {
	if !reverts.IsRevertErr(err) {
		return err
	}
	kind := reverts.KindOf(err)
	return &httpError{
		cause:  errors.WithMessage(err, kind.String()),
		status: RevertStatus(kind),
	}
}

// HandlerFunc like http.HandlerFunc, bu it returns an error.
// If the returned error is httpError type, httpError.status will be responded,
// otherwise http.StatusInternalServerError responded.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err != nil {
			var he *httpError
			if errors.As(err, &he) {
				if he.cause != nil {
					http.Error(w, he.cause.Error(), he.status)
				} else {
					w.WriteHeader(he.status)
				}
			} else {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M shortcut for type map[string]any.
type M map[string]any
