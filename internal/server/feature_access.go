package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	featuredomain "github.com/railzwaylabs/featuregate/internal/featureflag/domain"
)

type globalFeatureResponse struct {
	Slug    featuredomain.FlagKey `json:"slug"`
	Enabled bool                  `json:"enabled"`
}

type userFeatureResponse struct {
	UserID  int64                 `json:"user_id"`
	Slug    featuredomain.FlagKey `json:"slug"`
	Enabled bool                  `json:"enabled"`
}

type teamFeatureResponse struct {
	TeamID  int64                 `json:"team_id"`
	Slug    featuredomain.FlagKey `json:"slug"`
	Enabled bool                  `json:"enabled"`
}

func (s *Server) GetGlobalFeature(c *gin.Context) {
	key, err := featuredomain.ParseFlagKey(c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	enabled, err := s.featureSvc.IsGloballyEnabled(c.Request.Context(), key)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, globalFeatureResponse{Slug: key, Enabled: enabled})
}

func (s *Server) GetUserFeature(c *gin.Context) {
	userID, err := parsePathID(c.Param("user_id"))
	if err != nil {
		AbortWithError(c, featuredomain.ErrInvalidUserID)
		return
	}
	key, err := featuredomain.ParseFlagKey(c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	enabled, err := s.featureSvc.UserHasFeature(c.Request.Context(), userID, string(key))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, userFeatureResponse{UserID: userID, Slug: key, Enabled: enabled})
}

func (s *Server) GetTeamFeature(c *gin.Context) {
	teamID, err := parsePathID(c.Param("team_id"))
	if err != nil {
		AbortWithError(c, featuredomain.ErrInvalidTeamID)
		return
	}
	key, err := featuredomain.ParseFlagKey(c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	enabled, err := s.featureSvc.TeamHasFeature(c.Request.Context(), teamID, key)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, teamFeatureResponse{TeamID: teamID, Slug: key, Enabled: enabled})
}

func parsePathID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}
