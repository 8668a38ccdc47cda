package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/littyapp/litty/internal/database/localstate"
	"github.com/littyapp/litty/internal/entities"
	"github.com/littyapp/litty/internal/remote"
)

// UserController proxies streak and challenge data from the habit backend.
// The streak is served from the local cache when the backend is unreachable,
// so the dashboard keeps working offline.
type UserController struct {
	remote *remote.Client
	state  *localstate.Repository
}

func NewUserController(remoteClient *remote.Client, state *localstate.Repository) *UserController {
	return &UserController{
		remote: remoteClient,
		state:  state,
	}
}

// Streak returns the current reading streak, preferring live backend data.
func (controller *UserController) Streak(c *gin.Context) {
	if controller.remote != nil {
		streak, err := controller.remote.Streak(c.Request.Context())
		if err == nil {
			controller.cacheStreak(streak)
			c.IndentedJSON(http.StatusOK, streak)
			return
		}
	}

	if cached := controller.cachedStreak(); cached != nil {
		c.IndentedJSON(http.StatusOK, cached)
		return
	}

	respondBadGateway(c, "streak service unavailable")
}

// Challenges returns the user's challenge progress.
func (controller *UserController) Challenges(c *gin.Context) {
	if controller.remote == nil {
		respondBadGateway(c, "challenge service unavailable")
		return
	}

	challenges, err := controller.remote.UserChallenges(c.Request.Context())
	if err != nil {
		respondBadGateway(c, "challenge service unavailable")
		return
	}
	c.IndentedJSON(http.StatusOK, challenges)
}

// AvailableChallenges lists all challenges the backend offers.
func (controller *UserController) AvailableChallenges(c *gin.Context) {
	if controller.remote == nil {
		respondBadGateway(c, "challenge service unavailable")
		return
	}

	challenges, err := controller.remote.Challenges(c.Request.Context())
	if err != nil {
		respondBadGateway(c, "challenge service unavailable")
		return
	}
	c.IndentedJSON(http.StatusOK, challenges)
}

// StartChallenge enrolls the user in a challenge.
func (controller *UserController) StartChallenge(c *gin.Context) {
	controller.challengeAction(c, func(id int) error {
		return controller.remote.StartChallenge(c.Request.Context(), id)
	}, "challenge started")
}

// AbandonChallenge drops a challenge in progress.
func (controller *UserController) AbandonChallenge(c *gin.Context) {
	controller.challengeAction(c, func(id int) error {
		return controller.remote.AbandonChallenge(c.Request.Context(), id)
	}, "challenge abandoned")
}

func (controller *UserController) challengeAction(c *gin.Context, action func(int) error, message string) {
	if controller.remote == nil {
		respondBadGateway(c, "challenge service unavailable")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid challenge id")
		return
	}

	if err := action(id); err != nil {
		respondBadGateway(c, "challenge service unavailable")
		return
	}
	respondSuccess(c, message)
}

func (controller *UserController) cacheStreak(streak *remote.Streak) {
	if controller.state == nil {
		return
	}
	payload, err := json.Marshal(streak)
	if err != nil {
		return
	}
	_ = controller.state.Set(entities.KeyStreak, string(payload))
}

func (controller *UserController) cachedStreak() *remote.Streak {
	if controller.state == nil {
		return nil
	}
	entry, err := controller.state.Get(entities.KeyStreak)
	if err != nil {
		return nil
	}
	var streak remote.Streak
	if err := json.Unmarshal([]byte(entry.Value), &streak); err != nil {
		return nil
	}
	return &streak
}
