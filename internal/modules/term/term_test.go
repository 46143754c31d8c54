package term

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/geoexplorer/core/internal/models"
)

func newTestService(t *testing.T) (*Service, *models.UserModel) {
	t.Helper()
	dsn := fmt.Sprintf("file:term_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserModel{}, &models.BusinessProfileModel{}, &models.SearchTermModel{}))

	user := &models.UserModel{Email: "owner@example.com", Username: "owner", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	profile := &models.BusinessProfileModel{UserID: user.ID, BusinessName: "Rivermate"}
	require.NoError(t, db.Create(profile).Error)

	return NewService(db), user
}

func TestCreateAndList(t *testing.T) {
	svc, user := newTestService(t)

	created, err := svc.Create(user.ID, &TermDTO{Term: "  best EOR providers  ", Description: "core query"})
	require.NoError(t, err)
	assert.Equal(t, "best EOR providers", created.Term)
	assert.True(t, created.IsActive)

	inactive := false
	_, err = svc.Create(user.ID, &TermDTO{Term: "global payroll", IsActive: &inactive})
	require.NoError(t, err)

	terms, err := svc.List(user.ID)
	require.NoError(t, err)
	require.Len(t, terms, 2)
}

func TestCreateDuplicate(t *testing.T) {
	svc, user := newTestService(t)

	_, err := svc.Create(user.ID, &TermDTO{Term: "best EOR providers"})
	require.NoError(t, err)

	_, err = svc.Create(user.ID, &TermDTO{Term: "best EOR providers"})
	assert.ErrorIs(t, err, errDuplicateTerm)
}

func TestCreateWithoutProfile(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create("no-such-user", &TermDTO{Term: "anything"})
	assert.ErrorIs(t, err, errProfileNotFound)
}

func TestUpdate(t *testing.T) {
	svc, user := newTestService(t)

	created, err := svc.Create(user.ID, &TermDTO{Term: "best EOR providers"})
	require.NoError(t, err)

	newTerm := "top EOR platforms"
	inactive := false
	updated, err := svc.Update(user.ID, created.ID, &UpdateTermDTO{Term: &newTerm, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "top EOR platforms", updated.Term)
	assert.False(t, updated.IsActive)

	// A blank term leaves the existing one in place.
	blank := "   "
	updated, err = svc.Update(user.ID, created.ID, &UpdateTermDTO{Term: &blank})
	require.NoError(t, err)
	assert.Equal(t, "top EOR platforms", updated.Term)
}

func TestGetScopedToOwner(t *testing.T) {
	svc, user := newTestService(t)

	created, err := svc.Create(user.ID, &TermDTO{Term: "best EOR providers"})
	require.NoError(t, err)

	other := &models.UserModel{Email: "other@example.com", Username: "other", Password: "x"}
	require.NoError(t, svc.db.Create(other).Error)
	otherProfile := &models.BusinessProfileModel{UserID: other.ID, BusinessName: "Acme"}
	require.NoError(t, svc.db.Create(otherProfile).Error)

	_, err = svc.Get(other.ID, created.ID)
	assert.ErrorIs(t, err, errTermNotFound)
}

func TestDelete(t *testing.T) {
	svc, user := newTestService(t)

	created, err := svc.Create(user.ID, &TermDTO{Term: "best EOR providers"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(user.ID, created.ID))

	_, err = svc.Get(user.ID, created.ID)
	assert.ErrorIs(t, err, errTermNotFound)

	err = svc.Delete(user.ID, created.ID)
	assert.ErrorIs(t, err, errTermNotFound)
}
