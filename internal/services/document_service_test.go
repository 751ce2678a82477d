package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/flight-docs-api/internal/flightstate"
	"github.com/yukikurage/flight-docs-api/internal/models"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
)

type documentFixture struct {
	env    *serviceTestEnv
	ops    rbac.Actor
	pilot  rbac.Actor
	flight *models.Flight
	doc    *models.Document
}

// setupDocumentFixture creates a flight with a rostered pilot and one
// document created by a GroundOps user.
func setupDocumentFixture(t *testing.T) *documentFixture {
	t.Helper()
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	ops := env.actor(t, env.createUser(t, "ops@vietjetair.com", rbac.RoleGroundOps))
	pilotUser := env.createUser(t, "pilot@vietjetair.com", rbac.RoleNone)
	flight := env.createFlight(t, ops)
	require.NoError(t, env.memberships.AddUsers(ctx, ops, flight.ID, []uint64{pilotUser.ID}, "Pilot"))

	doc, err := env.documents.CreateDocument(ctx, ops, flight.ID, CreateDocumentInput{
		DocumentType: "Flight Plan",
		Title:        "OFP VJ123",
		Content:      "route HAN SGN",
		File:         &FileUpload{Name: "ofp.pdf", Size: 8, Body: strings.NewReader("%PDF-1.7")},
	})
	require.NoError(t, err)

	return &documentFixture{
		env:    env,
		ops:    ops,
		pilot:  env.actor(t, pilotUser),
		flight: flight,
		doc:    doc,
	}
}

func TestDocumentService_UnlockForRoster(t *testing.T) {
	f := setupDocumentFixture(t)
	ctx := context.Background()
	title := "OFP VJ123 rev 2"

	_, err := f.env.documents.UpdateDocument(ctx, f.pilot, f.doc.ID, UpdateDocumentInput{Title: &title})
	assert.ErrorIs(t, err, rbac.ErrNotPermitted)

	unlocked, err := f.env.documents.SetCanEdit(f.ops, f.doc.ID, true)
	require.NoError(t, err)
	assert.True(t, unlocked.CanEdit)

	updated, err := f.env.documents.UpdateDocument(ctx, f.pilot, f.doc.ID, UpdateDocumentInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	require.NotNil(t, updated.EditedBy)
	assert.Equal(t, f.pilot.UserID, *updated.EditedBy)
	assert.NotNil(t, updated.EditedAt)

	_, err = f.env.documents.SetCanEdit(f.pilot, f.doc.ID, false)
	assert.ErrorIs(t, err, rbac.ErrNotPermitted)
}

func TestDocumentService_ViewRequiresRoster(t *testing.T) {
	f := setupDocumentFixture(t)
	crew := f.env.actor(t, f.env.createUser(t, "crew@vietjetair.com", rbac.RoleCrew))

	_, err := f.env.documents.GetDocument(crew, f.doc.ID)
	assert.ErrorIs(t, err, rbac.ErrNotPermitted)

	got, err := f.env.documents.GetDocument(f.pilot, f.doc.ID)
	require.NoError(t, err)
	assert.Equal(t, f.doc.ID, got.ID)
	require.NotNil(t, got.Creator)
	assert.Equal(t, f.ops.UserID, got.Creator.ID)

	_, err = f.env.documents.GetDocument(f.pilot, 999)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocumentService_ListFollowsRoster(t *testing.T) {
	f := setupDocumentFixture(t)
	ctx := context.Background()

	other := f.env.createFlight(t, f.ops)
	_, err := f.env.documents.CreateDocument(ctx, f.ops, other.ID, CreateDocumentInput{
		DocumentType: "Flight Plan",
		Title:        "OFP VJ456",
		File:         &FileUpload{Name: "ofp.txt", Size: 3, Body: strings.NewReader("ofp")},
	})
	require.NoError(t, err)

	docs, total, err := f.env.documents.ListDocuments(f.pilot, ListDocumentsInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, docs, 1)
	assert.Equal(t, f.doc.ID, docs[0].ID)

	_, total, err = f.env.documents.ListDocuments(f.ops, ListDocumentsInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	found, err := f.env.documents.SearchDocuments(f.ops, ListDocumentsInput{DocumentType: "plan", Title: "456"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, other.ID, found[0].FlightID)
}

func TestDocumentService_DownloadAndReplaceFile(t *testing.T) {
	f := setupDocumentFixture(t)
	ctx := context.Background()

	dl, err := f.env.documents.DownloadDocument(ctx, f.pilot, f.doc.ID)
	require.NoError(t, err)
	body, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	require.NoError(t, dl.Body.Close())
	assert.Equal(t, "%PDF-1.7", string(body))
	assert.Equal(t, "application/pdf", dl.ContentType)
	assert.Equal(t, "ofp.pdf", dl.FileName)

	oldKey := f.doc.FilePath
	updated, err := f.env.documents.UpdateDocument(ctx, f.ops, f.doc.ID, UpdateDocumentInput{
		File: &FileUpload{Name: "ofp.csv", Size: 5, Body: strings.NewReader("a,b,c")},
	})
	require.NoError(t, err)
	assert.NotEqual(t, oldKey, updated.FilePath)

	_, err = f.env.store.Open(ctx, oldKey)
	assert.Error(t, err)

	dl, err = f.env.documents.DownloadDocument(ctx, f.pilot, f.doc.ID)
	require.NoError(t, err)
	defer dl.Body.Close()
	assert.Equal(t, "text/csv", dl.ContentType)
}

func TestDocumentService_UnrosteredGroundOpsCreatorCannotView(t *testing.T) {
	f := setupDocumentFixture(t)
	ctx := context.Background()

	_, err := f.env.documents.GetDocument(f.ops, f.doc.ID)
	assert.ErrorIs(t, err, rbac.ErrNotPermitted)

	_, err = f.env.documents.DownloadDocument(ctx, f.ops, f.doc.ID)
	assert.ErrorIs(t, err, rbac.ErrNotPermitted)

	title := "Revised OFP"
	updated, err := f.env.documents.UpdateDocument(ctx, f.ops, f.doc.ID, UpdateDocumentInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
}

func TestDocumentService_CreateRules(t *testing.T) {
	f := setupDocumentFixture(t)
	ctx := context.Background()
	file := func(name string, size int64) *FileUpload {
		return &FileUpload{Name: name, Size: size, Body: strings.NewReader("x")}
	}

	_, err := f.env.documents.CreateDocument(ctx, f.pilot, f.flight.ID, CreateDocumentInput{DocumentType: "Memo", Title: "Memo", File: file("m.txt", 1)})
	assert.ErrorIs(t, err, rbac.ErrNotPermitted)

	_, err = f.env.documents.CreateDocument(ctx, f.ops, f.flight.ID, CreateDocumentInput{DocumentType: "Memo", Title: "Memo"})
	assert.ErrorIs(t, err, ErrFileRequired)

	_, err = f.env.documents.CreateDocument(ctx, f.ops, f.flight.ID, CreateDocumentInput{DocumentType: "Memo", Title: "Memo", File: file("m.exe", 1)})
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = f.env.documents.CreateDocument(ctx, f.ops, f.flight.ID, CreateDocumentInput{DocumentType: "Memo", Title: "Memo", File: file("m.txt", 2<<20)})
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = f.env.documents.CreateDocument(ctx, f.ops, 999, CreateDocumentInput{DocumentType: "Memo", Title: "Memo", File: file("m.txt", 1)})
	assert.ErrorIs(t, err, ErrFlightNotFound)

	for i := 0; i < 2; i++ {
		_, err = f.env.flights.AdvanceStatus(f.ops, f.flight.ID)
		require.NoError(t, err)
	}
	_, err = f.env.documents.CreateDocument(ctx, f.ops, f.flight.ID, CreateDocumentInput{DocumentType: "Memo", Title: "Memo", File: file("m.txt", 1)})
	assert.ErrorIs(t, err, flightstate.ErrFlightClosed)
}

func TestDocumentService_DeleteRequiresElevatedRole(t *testing.T) {
	f := setupDocumentFixture(t)
	ctx := context.Background()

	_, err := f.env.documents.SetCanEdit(f.ops, f.doc.ID, true)
	require.NoError(t, err)

	err = f.env.documents.DeleteDocument(ctx, f.pilot, f.doc.ID)
	assert.ErrorIs(t, err, rbac.ErrNotPermitted)

	require.NoError(t, f.env.documents.DeleteDocument(ctx, f.ops, f.doc.ID))

	_, err = f.env.documents.GetDocument(f.ops, f.doc.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	_, err = f.env.store.Open(ctx, f.doc.FilePath)
	assert.Error(t, err)
}

func TestDocumentService_LandedRosterLosesAccess(t *testing.T) {
	f := setupDocumentFixture(t)

	for i := 0; i < 2; i++ {
		_, err := f.env.flights.AdvanceStatus(f.ops, f.flight.ID)
		require.NoError(t, err)
	}

	pilot, err := f.env.users.Actor(f.pilot.UserID)
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleNone, pilot.Role)

	_, err = f.env.documents.GetDocument(pilot, f.doc.ID)
	assert.ErrorIs(t, err, rbac.ErrNotPermitted)

	docs, _, err := f.env.documents.ListDocuments(pilot, ListDocumentsInput{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}
