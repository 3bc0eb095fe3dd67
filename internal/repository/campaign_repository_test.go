package repository

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicebridge/voicebridge-backend/internal/authz"
	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/model"
)

func newCampaignRepoMock(t *testing.T) (*CampaignRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &CampaignRepository{DB: db}, mock
}

func TestCampaignCreateAssignsIDAndTimestamps(t *testing.T) {
	repo, mock := newCampaignRepoMock(t)
	mock.ExpectExec("INSERT INTO campaigns").WillReturnResult(sqlmock.NewResult(0, 1))

	c := &model.Campaign{Name: "sales", Direction: "OUTBOUND", State: "DRAFT", Version: "0"}
	require.NoError(t, repo.Create(c))

	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
	assert.True(t, c.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignGetByIDNotFound(t *testing.T) {
	repo, mock := newCampaignRepoMock(t)
	mock.ExpectQuery("FROM campaigns WHERE id=\\$1 AND is_active=true").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID("missing", false)

	var nfErr *appErrors.NotFoundError
	require.True(t, errors.As(err, &nfErr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignUpdateRejectsUnknownColumn(t *testing.T) {
	repo, _ := newCampaignRepoMock(t)

	err := repo.Update("c1", map[string]any{"hashed_password": "nope"})

	var vErr *appErrors.ValidationError
	require.True(t, errors.As(err, &vErr))
}

func TestCampaignUpdateMissingRowIsNotFound(t *testing.T) {
	repo, mock := newCampaignRepoMock(t)
	mock.ExpectExec("UPDATE campaigns SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update("missing", map[string]any{"name": "renamed"})

	var nfErr *appErrors.NotFoundError
	require.True(t, errors.As(err, &nfErr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignSoftDeleteReportsMiss(t *testing.T) {
	repo, mock := newCampaignRepoMock(t)
	mock.ExpectExec("UPDATE campaigns SET is_active=false").
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE campaigns SET is_active=false").
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.SoftDelete("c1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SoftDelete("c1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignListJoinsAssignmentsForScopedUsers(t *testing.T) {
	repo, mock := newCampaignRepoMock(t)
	cols := []string{
		"id", "name", "direction", "inbound_number", "caller_id_number",
		"state", "version", "llm_config", "tts_config", "stt_config", "timezone",
		"post_call_actions", "live_actions", "callback_endpoint", "retry_config",
		"account_id", "org_id", "created_by", "created_at", "updated_at", "is_active",
		"telephonic_provider", "knowledge_base", "allow_interruption", "speech_setting", "external_id",
	}

	mock.ExpectQuery("JOIN user_campaigns ON user_campaigns.campaign_id = campaigns.id").
		WithArgs("u1", 10, 0).
		WillReturnRows(sqlmock.NewRows(cols))

	_, err := repo.List(authz.Scope{UserID: "u1"}, 0, 10)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
