package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"campuslink_server/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConnections struct {
	requestErr error
	acceptRoom *models.Room
	acceptErr  error
	declineErr error

	gotRequester string
	gotTarget    string
}

func (s *stubConnections) RequestConnection(_ context.Context, requesterID, targetID string) error {
	s.gotRequester = requesterID
	s.gotTarget = targetID
	return s.requestErr
}

func (s *stubConnections) AcceptConnection(_ context.Context, accepterID, senderID string) (*models.Room, error) {
	return s.acceptRoom, s.acceptErr
}

func (s *stubConnections) DeclineConnection(_ context.Context, declinerID, senderID string) error {
	return s.declineErr
}

type stubUsers struct {
	pending    []models.ParticipantSummary
	pendingErr error
	profile    *models.UserProfile
	profileErr error
}

func (s *stubUsers) GetPendingRequestProfiles(_ context.Context, userID string) ([]models.ParticipantSummary, error) {
	return s.pending, s.pendingErr
}

func (s *stubUsers) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	return s.profile, s.profileErr
}

func userRouter(connections *stubConnections, users *stubUsers) *mux.Router {
	connController := NewConnectionController(connections, users)
	profileController := NewUserProfileController(users)
	r := mux.NewRouter()
	r.HandleFunc("/api/users/me/requests", connController.HandleGetRequests).Methods("GET")
	r.HandleFunc("/api/users/{id}/connect", connController.HandleConnect).Methods("POST")
	r.HandleFunc("/api/users/{id}/accept", connController.HandleAccept).Methods("POST")
	r.HandleFunc("/api/users/{id}/decline", connController.HandleDecline).Methods("POST")
	r.HandleFunc("/api/users/{id}", profileController.HandleGetUser).Methods("GET")
	return r
}

func TestHandleConnect(t *testing.T) {
	connections := &stubConnections{}
	router := userRouter(connections, &stubUsers{})

	recorder := doRequest(t, router, "POST", "/api/users/bob/connect", "", "alice")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "alice", connections.gotRequester)
	assert.Equal(t, "bob", connections.gotTarget)

	router = userRouter(&stubConnections{requestErr: models.ErrConflict}, &stubUsers{})
	recorder = doRequest(t, router, "POST", "/api/users/bob/connect", "", "alice")
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestHandleAccept(t *testing.T) {
	connections := &stubConnections{acceptRoom: &models.Room{RoomID: "room-1"}}
	router := userRouter(connections, &stubUsers{})

	recorder := doRequest(t, router, "POST", "/api/users/alice/accept", "", "bob")
	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Chatroom models.Room `json:"chatroom"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "room-1", response.Chatroom.RoomID)

	router = userRouter(&stubConnections{acceptErr: models.ErrNotFound}, &stubUsers{})
	recorder = doRequest(t, router, "POST", "/api/users/alice/accept", "", "bob")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandleDecline(t *testing.T) {
	router := userRouter(&stubConnections{}, &stubUsers{})
	recorder := doRequest(t, router, "POST", "/api/users/alice/decline", "", "bob")
	assert.Equal(t, http.StatusOK, recorder.Code)

	router = userRouter(&stubConnections{declineErr: models.ErrNotFound}, &stubUsers{})
	recorder = doRequest(t, router, "POST", "/api/users/alice/decline", "", "bob")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandleGetRequests(t *testing.T) {
	users := &stubUsers{pending: []models.ParticipantSummary{{UserID: "alice", Name: "Alice"}}}
	router := userRouter(&stubConnections{}, users)

	recorder := doRequest(t, router, "GET", "/api/users/me/requests", "", "bob")
	require.Equal(t, http.StatusOK, recorder.Code)

	var response []models.ParticipantSummary
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, "alice", response[0].UserID)
}

func TestHandleGetUserRelationFlags(t *testing.T) {
	users := &stubUsers{profile: &models.UserProfile{
		UserID:          "bob",
		Name:            "Bob",
		Connections:     []string{"carol"},
		PendingRequests: []string{"alice"},
		CampusCredits:   30,
	}}
	router := userRouter(&stubConnections{}, users)

	recorder := doRequest(t, router, "GET", "/api/users/bob", "", "alice")
	require.Equal(t, http.StatusOK, recorder.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, false, response["isConnected"])
	assert.Equal(t, true, response["hasPendingRequest"])
	assert.Equal(t, float64(30), response["campusCredits"])

	recorder = doRequest(t, router, "GET", "/api/users/bob", "", "carol")
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, true, response["isConnected"])
}
