package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/newera/internal/models"
)

func TestUpdateVotePrice(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	resp := env.request(t, http.MethodPost, "/setting/updateVotePrice", token, map[string]interface{}{
		"votePrice": 50.0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var settings models.ContestSettings
	require.NoError(t, env.db.First(&settings).Error)
	assert.Equal(t, 50.0, settings.VotePrice)

	resp = env.request(t, http.MethodGet, "/setting/getVotePrice", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, 50.0, body["price"])
}

func TestUpdateVotePriceRejectsNonPositive(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	resp := env.request(t, http.MethodPost, "/setting/updateVotePrice", token, map[string]interface{}{
		"votePrice": 0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateVotePriceRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/setting/updateVotePrice", "", map[string]interface{}{
		"votePrice": 50.0,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateContestStatus(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	resp := env.request(t, http.MethodPost, "/setting/updateContestStatus", token, map[string]interface{}{
		"contestActive": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/setting/getContestStatus", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["contestActive"])

	resp = env.request(t, http.MethodPost, "/setting/updateContestStatus", token, map[string]interface{}{
		"contestActive": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/setting/getContestStatus", "", nil)
	body = decodeBody(t, resp)
	assert.Equal(t, false, body["contestActive"])
}

func TestUpdateContestStatusRequiresFlag(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	resp := env.request(t, http.MethodPost, "/setting/updateContestStatus", token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetSettingsInitializesDefaults(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	resp := env.request(t, http.MethodGet, "/setting/settings", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 0.0, data["vote_price"])
	assert.Equal(t, false, data["contest_active"])

	var count int64
	require.NoError(t, env.db.Model(&models.ContestSettings{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetVotePriceWithoutSettings(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/setting/getVotePrice", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
