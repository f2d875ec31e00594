package workflow

import (
	"context"
	"os"
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/clinicops_backend/config"
	"bitbucket.org/mmdatafocus/clinicops_backend/models"
	"bitbucket.org/mmdatafocus/clinicops_backend/utils"
	"github.com/sirupsen/logrus"
)

// SessionInfo is what the session middleware resolves a token to.
type SessionInfo struct {
	Username   string `json:"username"`
	CenterName string `json:"center_name"`
	Role       string `json:"role"`
}

type LoginResult struct {
	Token      string `json:"token"`
	Username   string `json:"username"`
	CenterName string `json:"center_name"`
	Role       string `json:"role"`
}

// ProcessLogin matches credentials against the Users worksheet (read through
// the cache), issues a JWT and registers the session in redis.
func ProcessLogin(ctx context.Context, deps Deps, username, password string) (*LoginResult, error) {
	recs, _, err := deps.Cache.Table(ctx, models.TableUsers)
	if err != nil {
		config.LogError(deps.Logger, "authWorkflow.go", "ProcessLogin", "ReadUsers", nil, err)
		return nil, err
	}

	user, err := models.FindUser(recs, username, password)
	if err != nil {
		return nil, err
	}

	token, err := utils.JwtGenerate(user.Username, user.CenterName, user.Role)
	if err != nil {
		config.LogError(deps.Logger, "authWorkflow.go", "ProcessLogin", "JwtGenerate", user.Username, err)
		return nil, err
	}

	info := SessionInfo{Username: user.Username, CenterName: user.CenterName, Role: user.Role}
	if err := config.SetRedisObject("Token:"+token, info, sessionLifespan()); err != nil {
		config.LogError(deps.Logger, "authWorkflow.go", "ProcessLogin", "StoreSession", user.Username, err)
		return nil, err
	}

	deps.Logger.WithFields(logrus.Fields{
		"module":   "workflow",
		"username": user.Username,
		"center":   user.CenterName,
		"role":     user.Role,
	}).Info("login")

	return &LoginResult{
		Token:      token,
		Username:   user.Username,
		CenterName: user.CenterName,
		Role:       user.Role,
	}, nil
}

// ProcessLogout drops the redis session. Wizard state removal is the
// caller's job since the session manager lives beside the HTTP layer.
func ProcessLogout(token string) error {
	return config.RemoveRedisKey("Token:" + token)
}

func sessionLifespan() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil || hours <= 0 {
		hours = 12
	}
	return time.Duration(hours) * time.Hour
}
