// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// httpError is a handler error that knows the HTTP status it should
// produce, mirroring the relay server's error-kind-to-status mapping: the
// kind decides the code, the message decides the body.
type httpError struct {
	status  int
	message string
}

func (e *httpError) Error() string { return e.message }

func errNotFound(format string, args ...any) *httpError {
	return &httpError{status: http.StatusNotFound, message: fmt.Sprintf(format, args...)}
}

func errTooLarge(format string, args ...any) *httpError {
	return &httpError{status: http.StatusRequestEntityTooLarge, message: fmt.Sprintf(format, args...)}
}

func errBadRequest(format string, args ...any) *httpError {
	return &httpError{status: http.StatusBadRequest, message: fmt.Sprintf(format, args...)}
}

func errForbidden(format string, args ...any) *httpError {
	return &httpError{status: http.StatusForbidden, message: fmt.Sprintf(format, args...)}
}

func errUnauthorized(format string, args ...any) *httpError {
	return &httpError{status: http.StatusUnauthorized, message: fmt.Sprintf(format, args...)}
}

func errInternal(format string, args ...any) *httpError {
	return &httpError{status: http.StatusInternalServerError, message: "internal server error"}
}

// writeError renders err as a JSON {"error": "..."} body with the
// appropriate status, defaulting unknown error types to 500.
func writeError(w http.ResponseWriter, err error) {
	he, ok := err.(*httpError)
	if !ok {
		he = &httpError{status: http.StatusInternalServerError, message: "internal server error"}
	}
	writeJSON(w, he.status, map[string]string{"error": he.message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
