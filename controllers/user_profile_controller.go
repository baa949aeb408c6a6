package controllers

import (
	"net/http"

	"campuslink_server/middleware"
	"campuslink_server/utils"

	"github.com/gorilla/mux"
)

// UserProfileController struct
type UserProfileController struct {
	Users RequestLister
}

// NewUserProfileController initializes the user profile controller
func NewUserProfileController(users RequestLister) *UserProfileController {
	return &UserProfileController{Users: users}
}

// HandleGetUser - fetch a user's profile plus its relation to the caller
func (c *UserProfileController) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	targetID := mux.Vars(r)["id"]
	callerID := middleware.UserID(r)

	profile, err := c.Users.GetProfile(r.Context(), targetID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"userId":            profile.UserID,
		"name":              profile.Name,
		"avatar":            profile.Avatar,
		"bio":               profile.Bio,
		"university":        profile.University,
		"major":             profile.Major,
		"year":              profile.Year,
		"skills":            profile.Skills,
		"interests":         profile.Interests,
		"campusCredits":     profile.CampusCredits,
		"isConnected":       profile.HasConnection(callerID),
		"hasPendingRequest": profile.HasPendingRequestFrom(callerID),
	})
}
