package search

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/geoexplorer/core/internal/middleware"
	"github.com/geoexplorer/core/internal/modules/gateway"
)

func newTestRouter(svc *Service, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	authMW := func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID)
	}
	NewHandler(svc).RegisterRoutes(api, authMW)
	return r
}

func postRunSearch(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/run-ai-search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRunSearchWithIDKeys(t *testing.T) {
	db := newTestDB(t)
	user, _, term, model := seedFixtures(t, db)

	gw := &fakeGateway{result: &gateway.Result{Response: "Rivermate is great.", TokensUsed: 5}}
	cls := &fakeClassifier{output: `{"business_mentioned": true, "sentiment": "positive", "confidence_score": 0.8}`}
	r := newTestRouter(NewService(db, gw, cls, zap.NewNop()), user.ID)

	w := postRunSearch(r, `{"search_term_id": "`+term.ID+`", "ai_model_id": "`+model.ID+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"business_mentioned":true`)
}

func TestRunSearchWithBareKeys(t *testing.T) {
	db := newTestDB(t)
	user, _, term, model := seedFixtures(t, db)

	gw := &fakeGateway{result: &gateway.Result{Response: "nothing relevant", TokensUsed: 5}}
	cls := &fakeClassifier{output: `{"business_mentioned": false}`}
	r := newTestRouter(NewService(db, gw, cls, zap.NewNop()), user.ID)

	w := postRunSearch(r, `{"search_term": "`+term.ID+`", "ai_model": "`+model.ID+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, model.Name, gw.gotModel)
	assert.Equal(t, term.Term, gw.gotQuery)
}

func TestRunSearchIDKeysWin(t *testing.T) {
	db := newTestDB(t)
	user, _, term, model := seedFixtures(t, db)

	gw := &fakeGateway{result: &gateway.Result{Response: "ok", TokensUsed: 1}}
	cls := &fakeClassifier{output: `{"business_mentioned": false}`}
	r := newTestRouter(NewService(db, gw, cls, zap.NewNop()), user.ID)

	w := postRunSearch(r, `{"search_term_id": "`+term.ID+`", "search_term": "bogus", "ai_model_id": "`+model.ID+`", "ai_model": "bogus"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestRunSearchMissingIDs(t *testing.T) {
	db := newTestDB(t)
	user, _, _, _ := seedFixtures(t, db)

	r := newTestRouter(NewService(db, &fakeGateway{}, &fakeClassifier{}, zap.NewNop()), user.ID)

	w := postRunSearch(r, `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "search_term_id")
}
