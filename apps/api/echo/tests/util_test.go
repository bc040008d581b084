package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	. "github.com/clubsite/clubsite/apps/api/echo"
	"github.com/clubsite/clubsite/core"
	"github.com/clubsite/clubsite/services/logger"
	"github.com/clubsite/clubsite/storage/inmem"
	"github.com/clubsite/clubsite/tests"
)

type backend struct {
	app     Server
	conf    *core.Config
	cards   *inmemdb.CardRepository
	members *inmemdb.MemberRepository
}

func setup(t *testing.T, requireAuth bool) backend {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	conf := testutil.Config()
	conf.Server.RequireAuth = requireAuth
	validate, translator := testutil.Validator()

	b := backend{
		conf:    conf,
		cards:   inmemdb.NewCardRepository(db),
		members: inmemdb.NewMemberRepository(db),
	}
	b.app = NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logsvc.NewDiscardLogger(),
		CardRepo:       b.cards,
		MemberRepo:     b.members,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	return b
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, conf *core.Config) string {
	token, err := GenerateToken(conf, NewClaims(conf, "1", "admin"))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		if rec.Body.Len() > 0 {
			t.Errorf("failed! data = %v; want no data", rec.Body.String())
		}
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
