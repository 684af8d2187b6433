package repositories

import (
	"context"
	"testing"
	"time"

	"pgpathfinder/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ProfileRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    ProfileRepository
	userID  uuid.UUID
	context context.Context
}

func (suite *ProfileRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewProfileRepo(mock)
	suite.userID = uuid.New()
	suite.context = context.Background()
}

func (suite *ProfileRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestProfileRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProfileRepoTestSuite))
}

func (suite *ProfileRepoTestSuite) profile(role string) *models.Profile {
	now := time.Now().UTC()
	return &models.Profile{
		ID:               suite.userID,
		Email:            "tenant@example.com",
		FullName:         stringPtr("Ravi Kumar"),
		Phone:            (*string)(nil),
		Role:             role,
		OrganizationName: (*string)(nil),
		PropertyCount:    (*int)(nil),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (suite *ProfileRepoTestSuite) TestGetByID() {
	p := suite.profile(models.RoleUser)
	suite.mock.ExpectQuery(sqlRe(`FROM profiles WHERE id = $1`)).
		WithArgs(suite.userID).
		WillReturnRows(pgxmock.NewRows(profileColumnNames).AddRow(profileRow(p)...))

	got, err := suite.repo.GetByID(suite.context, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Ravi Kumar", *got.FullName)
	assert.Equal(suite.T(), models.RoleUser, got.Role)
}

func (suite *ProfileRepoTestSuite) TestGetRole() {
	suite.mock.ExpectQuery(sqlRe(`SELECT get_user_role($1)::text`)).
		WithArgs(suite.userID).
		WillReturnRows(pgxmock.NewRows([]string{"get_user_role"}).AddRow(stringPtr(models.RoleAdmin)))

	role, err := suite.repo.GetRole(suite.context, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RoleAdmin, role)
}

func (suite *ProfileRepoTestSuite) TestGetRole_UnknownUser() {
	suite.mock.ExpectQuery(sqlRe(`SELECT get_user_role($1)::text`)).
		WithArgs(suite.userID).
		WillReturnRows(pgxmock.NewRows([]string{"get_user_role"}).AddRow((*string)(nil)))

	_, err := suite.repo.GetRole(suite.context, suite.userID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ProfileRepoTestSuite) TestUpdate_OnlyAllowListedColumns() {
	p := suite.profile(models.RolePGOwner)
	p.Phone = stringPtr("9000000000")
	p.PropertyCount = intPtr(3)

	expectActor(suite.mock, suite.userID)
	suite.mock.ExpectQuery(sqlRe(`UPDATE profiles SET phone = $1, property_count = $2 WHERE id = $3 RETURNING `)).
		WithArgs("9000000000", 3, suite.userID).
		WillReturnRows(pgxmock.NewRows(profileColumnNames).AddRow(profileRow(p)...))
	suite.mock.ExpectCommit()

	got, err := suite.repo.Update(suite.context, suite.userID, suite.userID, models.ProfilePatch{
		Phone:         stringPtr("9000000000"),
		PropertyCount: intPtr(3),
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, *got.PropertyCount)
	assert.Equal(suite.T(), models.RolePGOwner, got.Role)
}

func (suite *ProfileRepoTestSuite) TestUpdate_ClearsColumns() {
	p := suite.profile(models.RolePGOwner)

	expectActor(suite.mock, suite.userID)
	suite.mock.ExpectQuery(sqlRe(`UPDATE profiles SET full_name = $1, phone = NULL, organization_name = NULL WHERE id = $2 RETURNING `)).
		WithArgs("Asha", suite.userID).
		WillReturnRows(pgxmock.NewRows(profileColumnNames).AddRow(profileRow(p)...))
	suite.mock.ExpectCommit()

	_, err := suite.repo.Update(suite.context, suite.userID, suite.userID, models.ProfilePatch{
		FullName: stringPtr("Asha"),
		Clear:    []string{models.ProfilePhone, models.ProfileOrganizationName},
	})
	assert.NoError(suite.T(), err)
}

func (suite *ProfileRepoTestSuite) TestUpdate_RejectsUnknownClearColumn() {
	_, err := suite.repo.Update(suite.context, suite.userID, suite.userID, models.ProfilePatch{
		Clear: []string{"role"},
	})
	assert.Error(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ProfileRepoTestSuite) TestUpdate_EmptyPatchReadsOnly() {
	p := suite.profile(models.RoleUser)
	suite.mock.ExpectQuery(sqlRe(`FROM profiles WHERE id = $1`)).
		WithArgs(suite.userID).
		WillReturnRows(pgxmock.NewRows(profileColumnNames).AddRow(profileRow(p)...))

	got, err := suite.repo.Update(suite.context, suite.userID, suite.userID, models.ProfilePatch{})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.userID, got.ID)
}

func (suite *ProfileRepoTestSuite) TestSetRole_NotFound() {
	adminID := uuid.New()
	expectActor(suite.mock, adminID)
	suite.mock.ExpectQuery(sqlRe(`UPDATE profiles SET role = $1::user_role WHERE id = $2`)).
		WithArgs(models.RolePGOwner, suite.userID).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectRollback()

	_, err := suite.repo.SetRole(suite.context, adminID, suite.userID, models.RolePGOwner)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ProfileRepoTestSuite) TestList_FilteredByRole() {
	role := models.RolePGOwner
	p := suite.profile(models.RolePGOwner)

	suite.mock.ExpectQuery(sqlRe(`WHERE role = $1::user_role ORDER BY created_at DESC LIMIT $2 OFFSET $3`)).
		WithArgs(role, 50, 0).
		WillReturnRows(pgxmock.NewRows(profileColumnNames).AddRow(profileRow(p)...))

	profiles, err := suite.repo.List(suite.context, &role, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), profiles, 1)
}

func (suite *ProfileRepoTestSuite) TestCountByRole() {
	suite.mock.ExpectQuery(sqlRe(`FILTER (WHERE role = 'pg_owner')`)).
		WillReturnRows(pgxmock.NewRows([]string{"total", "owners", "admins"}).AddRow(10, 3, 1))

	stats, err := suite.repo.CountByRole(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), &models.UserStats{Total: 10, Owners: 3, Admins: 1}, stats)
}
