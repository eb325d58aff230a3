package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"outbound-caller/internal/calls"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = calls.CallRequest{
	ContactName: "Jo",
	PhoneNumber: "+15551234567",
	Objective:   "Confirm meeting",
	ScriptStyle: calls.ScriptStyleDirect,
}

func TestCreateCall_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/calls", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var got calls.CallRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, sample, got)
		_, _ = w.Write([]byte(`{"success":true,"message":"Call started.","callSid":"CA1","status":"in-progress"}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL+"/", time.Second).CreateCall(context.Background(), sample)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "CA1", res.CallSid)
	assert.Equal(t, calls.CallStatusInProgress, res.Status)
}

func TestCreateCall_ErrorStatusKeepsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"success":false,"message":"Too far ahead"}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL, time.Second).CreateCall(context.Background(), sample)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnprocessableEntity, se.Status)
	assert.Equal(t, "Too far ahead", se.Message)
	assert.False(t, res.Success)
	assert.Equal(t, "Too far ahead", res.Message)
}

func TestCreateCall_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).CreateCall(context.Background(), sample)
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestCreateCall_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).CreateCall(context.Background(), sample)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnreachable)
}

func TestPreview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/preview", r.URL.Path)
		_, _ = w.Write([]byte(`{"script":"Introduction:\nHi Jo"}`))
	}))
	defer srv.Close()

	got, err := New(srv.URL, time.Second).Preview(context.Background(), sample)
	require.NoError(t, err)
	assert.Equal(t, "Introduction:\nHi Jo", got)
}
