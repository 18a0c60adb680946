// Hand-maintained mocks of the interfaces in transport/transport.go, laid
// out the way mockgen would generate them.

// Package mocks provides gomock doubles for the transport package's carrier
// contract, used to unit-test internal/baton without standing up a real
// QUIC or WebSocket carrier.
package mocks

import (
	context "context"
	url "net/url"
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"

	transport "github.com/loopline-io/webtransport/transport"
)

// MockSession is a mock of the Session interface.
type MockSession struct {
	ctrl     *gomock.Controller
	recorder *MockSessionMockRecorder
}

// MockSessionMockRecorder is the mock recorder for MockSession.
type MockSessionMockRecorder struct {
	mock *MockSession
}

// NewMockSession creates a new mock instance.
func NewMockSession(ctrl *gomock.Controller) *MockSession {
	mock := &MockSession{ctrl: ctrl}
	mock.recorder = &MockSessionMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSession) EXPECT() *MockSessionMockRecorder {
	return m.recorder
}

func (m *MockSession) AcceptUni(ctx context.Context) (transport.RecvStream, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AcceptUni", ctx)
	ret0, _ := ret[0].(transport.RecvStream)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockSessionMockRecorder) AcceptUni(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AcceptUni", reflect.TypeOf((*MockSession)(nil).AcceptUni), ctx)
}

func (m *MockSession) AcceptBi(ctx context.Context) (transport.SendStream, transport.RecvStream, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AcceptBi", ctx)
	ret0, _ := ret[0].(transport.SendStream)
	ret1, _ := ret[1].(transport.RecvStream)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

func (mr *MockSessionMockRecorder) AcceptBi(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AcceptBi", reflect.TypeOf((*MockSession)(nil).AcceptBi), ctx)
}

func (m *MockSession) OpenUni(ctx context.Context) (transport.SendStream, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OpenUni", ctx)
	ret0, _ := ret[0].(transport.SendStream)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockSessionMockRecorder) OpenUni(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OpenUni", reflect.TypeOf((*MockSession)(nil).OpenUni), ctx)
}

func (m *MockSession) OpenBi(ctx context.Context) (transport.SendStream, transport.RecvStream, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OpenBi", ctx)
	ret0, _ := ret[0].(transport.SendStream)
	ret1, _ := ret[1].(transport.RecvStream)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

func (mr *MockSessionMockRecorder) OpenBi(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OpenBi", reflect.TypeOf((*MockSession)(nil).OpenBi), ctx)
}

func (m *MockSession) SendDatagram(b []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SendDatagram", b)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockSessionMockRecorder) SendDatagram(b interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SendDatagram", reflect.TypeOf((*MockSession)(nil).SendDatagram), b)
}

func (m *MockSession) ReceiveDatagram(ctx context.Context) ([]byte, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ReceiveDatagram", ctx)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockSessionMockRecorder) ReceiveDatagram(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReceiveDatagram", reflect.TypeOf((*MockSession)(nil).ReceiveDatagram), ctx)
}

func (m *MockSession) MaxDatagramSize() int {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MaxDatagramSize")
	ret0, _ := ret[0].(int)
	return ret0
}

func (mr *MockSessionMockRecorder) MaxDatagramSize() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MaxDatagramSize", reflect.TypeOf((*MockSession)(nil).MaxDatagramSize))
}

func (m *MockSession) Close(code transport.ErrorCode, reason string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close", code, reason)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockSessionMockRecorder) Close(code, reason interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockSession)(nil).Close), code, reason)
}

func (m *MockSession) Closed() <-chan struct{} {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Closed")
	ret0, _ := ret[0].(<-chan struct{})
	return ret0
}

func (mr *MockSessionMockRecorder) Closed() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Closed", reflect.TypeOf((*MockSession)(nil).Closed))
}

func (m *MockSession) Context() context.Context {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Context")
	ret0, _ := ret[0].(context.Context)
	return ret0
}

func (mr *MockSessionMockRecorder) Context() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Context", reflect.TypeOf((*MockSession)(nil).Context))
}

func (m *MockSession) URL() *url.URL {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "URL")
	ret0, _ := ret[0].(*url.URL)
	return ret0
}

func (mr *MockSessionMockRecorder) URL() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "URL", reflect.TypeOf((*MockSession)(nil).URL))
}

// MockSendStream is a mock of the SendStream interface.
type MockSendStream struct {
	ctrl     *gomock.Controller
	recorder *MockSendStreamMockRecorder
}

// MockSendStreamMockRecorder is the mock recorder for MockSendStream.
type MockSendStreamMockRecorder struct {
	mock *MockSendStream
}

// NewMockSendStream creates a new mock instance.
func NewMockSendStream(ctrl *gomock.Controller) *MockSendStream {
	mock := &MockSendStream{ctrl: ctrl}
	mock.recorder = &MockSendStreamMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSendStream) EXPECT() *MockSendStreamMockRecorder {
	return m.recorder
}

func (m *MockSendStream) Write(p []byte) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Write", p)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockSendStreamMockRecorder) Write(p interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Write", reflect.TypeOf((*MockSendStream)(nil).Write), p)
}

func (m *MockSendStream) WriteChunk(p []byte) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WriteChunk", p)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockSendStreamMockRecorder) WriteChunk(p interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WriteChunk", reflect.TypeOf((*MockSendStream)(nil).WriteChunk), p)
}

func (m *MockSendStream) SetPriority(priority int) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SetPriority", priority)
}

func (mr *MockSendStreamMockRecorder) SetPriority(priority interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetPriority", reflect.TypeOf((*MockSendStream)(nil).SetPriority), priority)
}

func (m *MockSendStream) Reset(code transport.ErrorCode) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Reset", code)
}

func (mr *MockSendStreamMockRecorder) Reset(code interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Reset", reflect.TypeOf((*MockSendStream)(nil).Reset), code)
}

func (m *MockSendStream) Close() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close")
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockSendStreamMockRecorder) Close() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockSendStream)(nil).Close))
}

func (m *MockSendStream) Closed() <-chan struct{} {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Closed")
	ret0, _ := ret[0].(<-chan struct{})
	return ret0
}

func (mr *MockSendStreamMockRecorder) Closed() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Closed", reflect.TypeOf((*MockSendStream)(nil).Closed))
}

// MockRecvStream is a mock of the RecvStream interface.
type MockRecvStream struct {
	ctrl     *gomock.Controller
	recorder *MockRecvStreamMockRecorder
}

// MockRecvStreamMockRecorder is the mock recorder for MockRecvStream.
type MockRecvStreamMockRecorder struct {
	mock *MockRecvStream
}

// NewMockRecvStream creates a new mock instance.
func NewMockRecvStream(ctrl *gomock.Controller) *MockRecvStream {
	mock := &MockRecvStream{ctrl: ctrl}
	mock.recorder = &MockRecvStreamMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRecvStream) EXPECT() *MockRecvStreamMockRecorder {
	return m.recorder
}

func (m *MockRecvStream) Read(p []byte) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Read", p)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockRecvStreamMockRecorder) Read(p interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Read", reflect.TypeOf((*MockRecvStream)(nil).Read), p)
}

func (m *MockRecvStream) ReadChunk(max int) ([]byte, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ReadChunk", max)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockRecvStreamMockRecorder) ReadChunk(max interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReadChunk", reflect.TypeOf((*MockRecvStream)(nil).ReadChunk), max)
}

func (m *MockRecvStream) Stop(code transport.ErrorCode) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Stop", code)
}

func (mr *MockRecvStreamMockRecorder) Stop(code interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Stop", reflect.TypeOf((*MockRecvStream)(nil).Stop), code)
}

func (m *MockRecvStream) Closed() <-chan struct{} {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Closed")
	ret0, _ := ret[0].(<-chan struct{})
	return ret0
}

func (mr *MockRecvStreamMockRecorder) Closed() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Closed", reflect.TypeOf((*MockRecvStream)(nil).Closed))
}

var (
	_ transport.Session    = (*MockSession)(nil)
	_ transport.SendStream = (*MockSendStream)(nil)
	_ transport.RecvStream = (*MockRecvStream)(nil)
)
