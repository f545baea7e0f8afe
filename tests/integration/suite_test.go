package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/tunik/tunik-api/config"
	"github.com/tunik/tunik-api/routes"
	"github.com/tunik/tunik-api/tests/testutil"
	"gorm.io/gorm"
)

// apiSuite runs requests through the full application router against a
// freshly seeded in-memory database per test
type apiSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

// SetupSuite runs once before all tests
func (s *apiSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	testutil.MustSetTestEnvironment(s.T())
	s.T().Setenv("DB_DRIVER", "sqlite")
	s.T().Setenv("DATABASE_URL", ":memory:")
	s.T().Setenv("LOG_LEVEL", "error")

	cfg, err := config.Load()
	s.Require().NoError(err)
	s.cfg = cfg
	config.SetupLogger(cfg)
}

// SetupTest runs before each test
func (s *apiSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	testutil.Seed(s.T(), s.db)
	config.SetDB(s.db)

	s.router = routes.SetupRouter(s.cfg)
}

// request sends body as JSON and decodes the response envelope
func (s *apiSuite) request(method, path string, body interface{}) (int, map[string]interface{}) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		s.Require().NoError(err)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var response map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return w.Code, response
}

// create posts body and returns the new record's id under idKey
func (s *apiSuite) create(path, idKey string, body interface{}) uint {
	code, response := s.request(http.MethodPost, path, body)
	s.Require().Equal(http.StatusCreated, code, response)
	return uint(data(response)[idKey].(float64))
}

func data(response map[string]interface{}) map[string]interface{} {
	return response["data"].(map[string]interface{})
}

func list(response map[string]interface{}) []interface{} {
	items, _ := response["data"].([]interface{})
	return items
}
