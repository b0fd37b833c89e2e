package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/sprintertech/atomic-bridge/api/handlers"
	mock_handlers "github.com/sprintertech/atomic-bridge/api/handlers/mock"
)

type ConfirmationsHandlerTestSuite struct {
	suite.Suite

	provider *mock_handlers.MockConfirmationsProvider
	handler  *handlers.ConfirmationsHandler
}

func TestRunConfirmationsHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ConfirmationsHandlerTestSuite))
}

func (s *ConfirmationsHandlerTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.provider = mock_handlers.NewMockConfirmationsProvider(ctrl)
	s.handler = handlers.NewConfirmationsHandler(s.provider)
}

func (s *ConfirmationsHandlerTestSuite) Test_HandleRequest_MissingChain() {
	req := httptest.NewRequest(http.MethodGet, "/v1/chains//confirmations", nil)
	req = mux.SetURLVars(req, map[string]string{
		"chain": "",
	})

	recorder := httptest.NewRecorder()

	s.handler.HandleRequest(recorder, req)

	s.Equal(http.StatusBadRequest, recorder.Code)
}

func (s *ConfirmationsHandlerTestSuite) Test_HandleRequest_ChainNotFound() {
	s.provider.EXPECT().Confirmations("sepolia").Return(uint64(0), false)

	req := httptest.NewRequest(http.MethodGet, "/v1/chains/sepolia/confirmations", nil)
	req = mux.SetURLVars(req, map[string]string{
		"chain": "sepolia",
	})

	recorder := httptest.NewRecorder()

	s.handler.HandleRequest(recorder, req)

	s.Equal(http.StatusNotFound, recorder.Code)
}

func (s *ConfirmationsHandlerTestSuite) Test_HandleRequest_ValidConfirmations() {
	s.provider.EXPECT().Confirmations("eth").Return(uint64(12), true)

	req := httptest.NewRequest(http.MethodGet, "/v1/chains/eth/confirmations", nil)
	req = mux.SetURLVars(req, map[string]string{
		"chain": "eth",
	})

	recorder := httptest.NewRecorder()

	s.handler.HandleRequest(recorder, req)

	s.Equal(http.StatusOK, recorder.Code)

	data, err := io.ReadAll(recorder.Body)
	s.Nil(err)

	s.Equal("{\"chain\":\"eth\",\"confirmations\":12}", string(data))
}
