// Package mocks holds testify mocks of the engine interfaces. They follow
// mockery's testify layout (constructor with cleanup, EXPECT, typed calls)
// and are maintained by hand.
package mocks

import (
	"github.com/osdp-go/osdp-go/pkg/device"
	"github.com/osdp-go/osdp-go/pkg/engine"
	mock "github.com/stretchr/testify/mock"
)

// NewMockControlPanelEngine creates a MockControlPanelEngine bound to t and
// asserts its expectations when t finishes.
func NewMockControlPanelEngine(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockControlPanelEngine {
	mock := &MockControlPanelEngine{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

// MockControlPanelEngine is a mock of engine.ControlPanelEngine.
type MockControlPanelEngine struct {
	mock.Mock
}

type MockControlPanelEngine_Expecter struct {
	mock *mock.Mock
}

func (_m *MockControlPanelEngine) EXPECT() *MockControlPanelEngine_Expecter {
	return &MockControlPanelEngine_Expecter{mock: &_m.Mock}
}

var _ engine.ControlPanelEngine = (*MockControlPanelEngine)(nil)


// CheckCapability provides a mock function for the type MockControlPanelEngine
func (_mock *MockControlPanelEngine) CheckCapability(index int, code device.FunctionCode) (device.Capability, bool) {
	ret := _mock.Called(index, code)

	if len(ret) == 0 {
		panic("no return value specified for CheckCapability")
	}

	if returnFunc, ok := ret.Get(0).(func(int, device.FunctionCode) (device.Capability, bool)); ok {
		return returnFunc(index, code)
	}
	r0 := ret.Get(0).(device.Capability)
	r1 := ret.Get(1).(bool)
	return r0, r1
}

// MockControlPanelEngine_CheckCapability_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'CheckCapability'
type MockControlPanelEngine_CheckCapability_Call struct {
	*mock.Call
}

// CheckCapability is a helper method to define mock.On call
//   - index int
//   - code device.FunctionCode
func (_e *MockControlPanelEngine_Expecter) CheckCapability(index interface{}, code interface{}) *MockControlPanelEngine_CheckCapability_Call {
	return &MockControlPanelEngine_CheckCapability_Call{Call: _e.mock.On("CheckCapability", index, code)}
}

func (_c *MockControlPanelEngine_CheckCapability_Call) Run(run func(index int, code device.FunctionCode)) *MockControlPanelEngine_CheckCapability_Call {
	_c.Call.Run(func(args mock.Arguments) {
		arg0 := args[0].(int)
		arg1 := args[1].(device.FunctionCode)
		run(arg0, arg1)
	})
	return _c
}

func (_c *MockControlPanelEngine_CheckCapability_Call) Return(capability device.Capability, b bool) *MockControlPanelEngine_CheckCapability_Call {
	_c.Call.Return(capability, b)
	return _c
}

func (_c *MockControlPanelEngine_CheckCapability_Call) RunAndReturn(run func(int, device.FunctionCode) (device.Capability, bool)) *MockControlPanelEngine_CheckCapability_Call {
	_c.Call.Return(run)
	return _c
}

// Close provides a mock function for the type MockControlPanelEngine
func (_mock *MockControlPanelEngine) Close() {
	_mock.Called()
}

// MockControlPanelEngine_Close_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Close'
type MockControlPanelEngine_Close_Call struct {
	*mock.Call
}

// Close is a helper method to define mock.On call
func (_e *MockControlPanelEngine_Expecter) Close() *MockControlPanelEngine_Close_Call {
	return &MockControlPanelEngine_Close_Call{Call: _e.mock.On("Close")}
}

func (_c *MockControlPanelEngine_Close_Call) Run(run func()) *MockControlPanelEngine_Close_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run()
	})
	return _c
}

func (_c *MockControlPanelEngine_Close_Call) Return() *MockControlPanelEngine_Close_Call {
	_c.Call.Return()
	return _c
}

func (_c *MockControlPanelEngine_Close_Call) RunAndReturn(run func()) *MockControlPanelEngine_Close_Call {
	_c.Run(run)
	return _c
}

// DisablePD provides a mock function for the type MockControlPanelEngine
func (_mock *MockControlPanelEngine) DisablePD(index int) bool {
	ret := _mock.Called(index)

	if len(ret) == 0 {
		panic("no return value specified for DisablePD")
	}

	if returnFunc, ok := ret.Get(0).(func(int) bool); ok {
		return returnFunc(index)
	}
	return ret.Get(0).(bool)
}

// MockControlPanelEngine_DisablePD_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'DisablePD'
type MockControlPanelEngine_DisablePD_Call struct {
	*mock.Call
}

// DisablePD is a helper method to define mock.On call
//   - index int
func (_e *MockControlPanelEngine_Expecter) DisablePD(index interface{}) *MockControlPanelEngine_DisablePD_Call {
	return &MockControlPanelEngine_DisablePD_Call{Call: _e.mock.On("DisablePD", index)}
}

func (_c *MockControlPanelEngine_DisablePD_Call) Run(run func(index int)) *MockControlPanelEngine_DisablePD_Call {
	_c.Call.Run(func(args mock.Arguments) {
		arg0 := args[0].(int)
		run(arg0)
	})
	return _c
}

func (_c *MockControlPanelEngine_DisablePD_Call) Return(b bool) *MockControlPanelEngine_DisablePD_Call {
	_c.Call.Return(b)
	return _c
}

func (_c *MockControlPanelEngine_DisablePD_Call) RunAndReturn(run func(int) bool) *MockControlPanelEngine_DisablePD_Call {
	_c.Call.Return(run)
	return _c
}

// EnablePD provides a mock function for the type MockControlPanelEngine
func (_mock *MockControlPanelEngine) EnablePD(index int) bool {
	ret := _mock.Called(index)

	if len(ret) == 0 {
		panic("no return value specified for EnablePD")
	}

	if returnFunc, ok := ret.Get(0).(func(int) bool); ok {
		return returnFunc(index)
	}
	return ret.Get(0).(bool)
}

// MockControlPanelEngine_EnablePD_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'EnablePD'
type MockControlPanelEngine_EnablePD_Call struct {
	*mock.Call
}

// EnablePD is a helper method to define mock.On call
//   - index int
func (_e *MockControlPanelEngine_Expecter) EnablePD(index interface{}) *MockControlPanelEngine_EnablePD_Call {
	return &MockControlPanelEngine_EnablePD_Call{Call: _e.mock.On("EnablePD", index)}
}

func (_c *MockControlPanelEngine_EnablePD_Call) Run(run func(index int)) *MockControlPanelEngine_EnablePD_Call {
	_c.Call.Run(func(args mock.Arguments) {
		arg0 := args[0].(int)
		run(arg0)
	})
	return _c
}

func (_c *MockControlPanelEngine_EnablePD_Call) Return(b bool) *MockControlPanelEngine_EnablePD_Call {
	_c.Call.Return(b)
	return _c
}

func (_c *MockControlPanelEngine_EnablePD_Call) RunAndReturn(run func(int) bool) *MockControlPanelEngine_EnablePD_Call {
	_c.Call.Return(run)
	return _c
}

// FileTxStatus provides a mock function for the type MockControlPanelEngine
func (_mock *MockControlPanelEngine) FileTxStatus(index int) (engine.FileTxStatus, bool) {
	ret := _mock.Called(index)

	if len(ret) == 0 {
		panic("no return value specified for FileTxStatus")
	}

	if returnFunc, ok := ret.Get(0).(func(int) (engine.FileTxStatus, bool)); ok {
		return returnFunc(index)
	}
	r0 := ret.Get(0).(engine.FileTxStatus)
	r1 := ret.Get(1).(bool)
	return r0, r1
}

// MockControlPanelEngine_FileTxStatus_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'FileTxStatus'
type MockControlPanelEngine_FileTxStatus_Call struct {
	*mock.Call
}

// FileTxStatus is a helper method to define mock.On call
//   - index int
func (_e *MockControlPanelEngine_Expecter) FileTxStatus(index interface{}) *MockControlPanelEngine_FileTxStatus_Call {
	return &MockControlPanelEngine_FileTxStatus_Call{Call: _e.mock.On("FileTxStatus", index)}
}

func (_c *MockControlPanelEngine_FileTxStatus_Call) Run(run func(index int)) *MockControlPanelEngine_FileTxStatus_Call {
	_c.Call.Run(func(args mock.Arguments) {
		arg0 := args[0].(int)
		run(arg0)
	})
	return _c
}

func (_c *MockControlPanelEngine_FileTxStatus_Call) Return(status engine.FileTxStatus, ok bool) *MockControlPanelEngine_FileTxStatus_Call {
	_c.Call.Return(status, ok)
	return _c
}

func (_c *MockControlPanelEngine_FileTxStatus_Call) RunAndReturn(run func(int) (engine.FileTxStatus, bool)) *MockControlPanelEngine_FileTxStatus_Call {
	_c.Call.Return(run)
	return _c
}

// IsPDEnabled provides a mock function for the type MockControlPanelEngine
func (_mock *MockControlPanelEngine) IsPDEnabled(index int) bool {
	ret := _mock.Called(index)

	if len(ret) == 0 {
		panic("no return value specified for IsPDEnabled")
	}

	if returnFunc, ok := ret.Get(0).(func(int) bool); ok {
		return returnFunc(index)
	}
	return ret.Get(0).(bool)
}

// MockControlPanelEngine_IsPDEnabled_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'IsPDEnabled'
type MockControlPanelEngine_IsPDEnabled_Call struct {
	*mock.Call
}

// IsPDEnabled is a helper method to define mock.On call
//   - index int
func (_e *MockControlPanelEngine_Expecter) IsPDEnabled(index interface{}) *MockControlPanelEngine_IsPDEnabled_Call {
	return &MockControlPanelEngine_IsPDEnabled_Call{Call: _e.mock.On("IsPDEnabled", index)}
}

func (_c *MockControlPanelEngine_IsPDEnabled_Call) Run(run func(index int)) *MockControlPanelEngine_IsPDEnabled_Call {
	_c.Call.Run(func(args mock.Arguments) {
		arg0 := args[0].(int)
		run(arg0)
	})
	return _c
}

func (_c *MockControlPanelEngine_IsPDEnabled_Call) Return(b bool) *MockControlPanelEngine_IsPDEnabled_Call {
	_c.Call.Return(b)
	return _c
}

func (_c *MockControlPanelEngine_IsPDEnabled_Call) RunAndReturn(run func(int) bool) *MockControlPanelEngine_IsPDEnabled_Call {
	_c.Call.Return(run)
	return _c
}

// ModifyFlag provides a mock function for the type MockControlPanelEngine
func (_mock *MockControlPanelEngine) ModifyFlag(index int, flags device.Flags, set bool) bool {
	ret := _mock.Called(index, flags, set)

	if len(ret) == 0 {
		panic("no return value specified for ModifyFlag")
	}

	if returnFunc, ok := ret.Get(0).(func(int, device.Flags, bool) bool); ok {
		return returnFunc(index, flags, set)
	}
	return ret.Get(0).(bool)
}

// MockControlPanelEngine_ModifyFlag_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'ModifyFlag'
type MockControlPanelEngine_ModifyFlag_Call struct {
	*mock.Call
}

// ModifyFlag is a helper method to define mock.On call
//   - index int
//   - flags device.Flags
//   - set bool
func (_e *MockControlPanelEngine_Expecter) ModifyFlag(index interface{}, flags interface{}, set interface{}) *MockControlPanelEngine_ModifyFlag_Call {
	return &MockControlPanelEngine_ModifyFlag_Call{Call: _e.mock.On("ModifyFlag", index, flags, set)}
}

func (_c *MockControlPanelEngine_ModifyFlag_Call) Run(run func(index int, flags device.Flags, set bool)) *MockControlPanelEngine_ModifyFlag_Call {
	_c.Call.Run(func(args mock.Arguments) {
		arg0 := args[0].(int)
		arg1 := args[1].(device.Flags)
		arg2 := args[2].(bool)
		run(arg0, arg1, arg2)
	})
	return _c
}

func (_c *MockControlPanelEngine_ModifyFlag_Call) Return(b bool) *MockControlPanelEngine_ModifyFlag_Call {
	_c.Call.Return(b)
	return _c
}

func (_c *MockControlPanelEngine_ModifyFlag_Call) RunAndReturn(run func(int, device.Flags, bool) bool) *MockControlPanelEngine_ModifyFlag_Call {
	_c.Call.Return(run)
	return _c
}

// PDID provides a mock function for the type MockControlPanelEngine
func (_mock *MockControlPanelEngine) PDID(index int) (engine.PDID, bool) {
	ret := _mock.Called(index)

	if len(ret) == 0 {
		panic("no return value specified for PDID")
	}

	if returnFunc, ok := ret.Get(0).(func(int) (engine.PDID, bool)); ok {
		return returnFunc(index)
	}
	r0 := ret.Get(0).(engine.PDID)
	r1 := ret.Get(1).(bool)
	return r0, r1
}

// MockControlPanelEngine_PDID_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'PDID'
type MockControlPanelEngine_PDID_Call struct {
	*mock.Call
}

// PDID is a helper method to define mock.On call
//   - index int
func (_e *MockControlPanelEngine_Expecter) PDID(index interface{}) *MockControlPanelEngine_PDID_Call {
	return &MockControlPanelEngine_PDID_Call{Call: _e.mock.On("PDID", index)}
}

func (_c *MockControlPanelEngine_PDID_Call) Run(run func(index int)) *MockControlPanelEngine_PDID_Call {
	_c.Call.Run(func(args mock.Arguments) {
		arg0 := args[0].(int)
		run(arg0)
	})
	return _c
}

func (_c *MockControlPanelEngine_PDID_Call) Return(pDID engine.PDID, b bool) *MockControlPanelEngine_PDID_Call {
	_c.Call.Return(pDID, b)
	return _c
}

func (_c *MockControlPanelEngine_PDID_Call) RunAndReturn(run func(int) (engine.PDID, bool)) *MockControlPanelEngine_PDID_Call {
	_c.Call.Return(run)
	return _c
}

// Poll provides a mock function for the type MockControlPanelEngine
func (_mock *MockControlPanelEngine) Poll() {
	_mock.Called()
}

// MockControlPanelEngine_Poll_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Poll'
type MockControlPanelEngine_Poll_Call struct {
	*mock.Call
}

// Poll is a helper method to define mock.On call
func (_e *MockControlPanelEngine_Expecter) Poll() *MockControlPanelEngine_Poll_Call {
	return &MockControlPanelEngine_Poll_Call{Call: _e.mock.On("Poll")}
}

func (_c *MockControlPanelEngine_Poll_Call) Run(run func()) *MockControlPanelEngine_Poll_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run()
	})
	return _c
}

func (_c *MockControlPanelEngine_Poll_Call) Return() *MockControlPanelEngine_Poll_Call {
	_c.Call.Return()
	return _c
}

func (_c *MockControlPanelEngine_Poll_Call) RunAndReturn(run func()) *MockControlPanelEngine_Poll_Call {
	_c.Run(run)
	return _c
}

// RegisterFileOps provides a mock function for the type MockControlPanelEngine
func (_mock *MockControlPanelEngine) RegisterFileOps(index int, ops engine.FileOps) bool {
	ret := _mock.Called(index, ops)

	if len(ret) == 0 {
		panic("no return value specified for RegisterFileOps")
	}

	if returnFunc, ok := ret.Get(0).(func(int, engine.FileOps) bool); ok {
		return returnFunc(index, ops)
	}
	return ret.Get(0).(bool)
}

// MockControlPanelEngine_RegisterFileOps_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'RegisterFileOps'
type MockControlPanelEngine_RegisterFileOps_Call struct {
	*mock.Call
}

// RegisterFileOps is a helper method to define mock.On call
//   - index int
//   - ops engine.FileOps
func (_e *MockControlPanelEngine_Expecter) RegisterFileOps(index interface{}, ops interface{}) *MockControlPanelEngine_RegisterFileOps_Call {
	return &MockControlPanelEngine_RegisterFileOps_Call{Call: _e.mock.On("RegisterFileOps", index, ops)}
}

func (_c *MockControlPanelEngine_RegisterFileOps_Call) Run(run func(index int, ops engine.FileOps)) *MockControlPanelEngine_RegisterFileOps_Call {
	_c.Call.Run(func(args mock.Arguments) {
		arg0 := args[0].(int)
		var arg1 engine.FileOps
		if args[1] != nil {
			arg1 = args[1].(engine.FileOps)
		}
		run(arg0, arg1)
	})
	return _c
}

func (_c *MockControlPanelEngine_RegisterFileOps_Call) Return(b bool) *MockControlPanelEngine_RegisterFileOps_Call {
	_c.Call.Return(b)
	return _c
}

func (_c *MockControlPanelEngine_RegisterFileOps_Call) RunAndReturn(run func(int, engine.FileOps) bool) *MockControlPanelEngine_RegisterFileOps_Call {
	_c.Call.Return(run)
	return _c
}

// SCStatus provides a mock function for the type MockControlPanelEngine
func (_mock *MockControlPanelEngine) SCStatus() device.Mask {
	ret := _mock.Called()

	if len(ret) == 0 {
		panic("no return value specified for SCStatus")
	}

	if returnFunc, ok := ret.Get(0).(func() device.Mask); ok {
		return returnFunc()
	}
	return ret.Get(0).(device.Mask)
}

// MockControlPanelEngine_SCStatus_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'SCStatus'
type MockControlPanelEngine_SCStatus_Call struct {
	*mock.Call
}

// SCStatus is a helper method to define mock.On call
func (_e *MockControlPanelEngine_Expecter) SCStatus() *MockControlPanelEngine_SCStatus_Call {
	return &MockControlPanelEngine_SCStatus_Call{Call: _e.mock.On("SCStatus")}
}

func (_c *MockControlPanelEngine_SCStatus_Call) Run(run func()) *MockControlPanelEngine_SCStatus_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run()
	})
	return _c
}

func (_c *MockControlPanelEngine_SCStatus_Call) Return(mask device.Mask) *MockControlPanelEngine_SCStatus_Call {
	_c.Call.Return(mask)
	return _c
}

func (_c *MockControlPanelEngine_SCStatus_Call) RunAndReturn(run func() device.Mask) *MockControlPanelEngine_SCStatus_Call {
	_c.Call.Return(run)
	return _c
}

// SetEventHandler provides a mock function for the type MockControlPanelEngine
func (_mock *MockControlPanelEngine) SetEventHandler(h engine.EventHandler) {
	_mock.Called(h)
}

// MockControlPanelEngine_SetEventHandler_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'SetEventHandler'
type MockControlPanelEngine_SetEventHandler_Call struct {
	*mock.Call
}

// SetEventHandler is a helper method to define mock.On call
//   - h engine.EventHandler
func (_e *MockControlPanelEngine_Expecter) SetEventHandler(h interface{}) *MockControlPanelEngine_SetEventHandler_Call {
	return &MockControlPanelEngine_SetEventHandler_Call{Call: _e.mock.On("SetEventHandler", h)}
}

func (_c *MockControlPanelEngine_SetEventHandler_Call) Run(run func(h engine.EventHandler)) *MockControlPanelEngine_SetEventHandler_Call {
	_c.Call.Run(func(args mock.Arguments) {
		var arg0 engine.EventHandler
		if args[0] != nil {
			arg0 = args[0].(engine.EventHandler)
		}
		run(arg0)
	})
	return _c
}

func (_c *MockControlPanelEngine_SetEventHandler_Call) Return() *MockControlPanelEngine_SetEventHandler_Call {
	_c.Call.Return()
	return _c
}

func (_c *MockControlPanelEngine_SetEventHandler_Call) RunAndReturn(run func(engine.EventHandler)) *MockControlPanelEngine_SetEventHandler_Call {
	_c.Run(run)
	return _c
}

// Status provides a mock function for the type MockControlPanelEngine
func (_mock *MockControlPanelEngine) Status() device.Mask {
	ret := _mock.Called()

	if len(ret) == 0 {
		panic("no return value specified for Status")
	}

	if returnFunc, ok := ret.Get(0).(func() device.Mask); ok {
		return returnFunc()
	}
	return ret.Get(0).(device.Mask)
}

// MockControlPanelEngine_Status_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Status'
type MockControlPanelEngine_Status_Call struct {
	*mock.Call
}

// Status is a helper method to define mock.On call
func (_e *MockControlPanelEngine_Expecter) Status() *MockControlPanelEngine_Status_Call {
	return &MockControlPanelEngine_Status_Call{Call: _e.mock.On("Status")}
}

func (_c *MockControlPanelEngine_Status_Call) Run(run func()) *MockControlPanelEngine_Status_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run()
	})
	return _c
}

func (_c *MockControlPanelEngine_Status_Call) Return(mask device.Mask) *MockControlPanelEngine_Status_Call {
	_c.Call.Return(mask)
	return _c
}

func (_c *MockControlPanelEngine_Status_Call) RunAndReturn(run func() device.Mask) *MockControlPanelEngine_Status_Call {
	_c.Call.Return(run)
	return _c
}

// SubmitCommand provides a mock function for the type MockControlPanelEngine
func (_mock *MockControlPanelEngine) SubmitCommand(index int, cmd engine.Command) bool {
	ret := _mock.Called(index, cmd)

	if len(ret) == 0 {
		panic("no return value specified for SubmitCommand")
	}

	if returnFunc, ok := ret.Get(0).(func(int, engine.Command) bool); ok {
		return returnFunc(index, cmd)
	}
	return ret.Get(0).(bool)
}

// MockControlPanelEngine_SubmitCommand_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'SubmitCommand'
type MockControlPanelEngine_SubmitCommand_Call struct {
	*mock.Call
}

// SubmitCommand is a helper method to define mock.On call
//   - index int
//   - cmd engine.Command
func (_e *MockControlPanelEngine_Expecter) SubmitCommand(index interface{}, cmd interface{}) *MockControlPanelEngine_SubmitCommand_Call {
	return &MockControlPanelEngine_SubmitCommand_Call{Call: _e.mock.On("SubmitCommand", index, cmd)}
}

func (_c *MockControlPanelEngine_SubmitCommand_Call) Run(run func(index int, cmd engine.Command)) *MockControlPanelEngine_SubmitCommand_Call {
	_c.Call.Run(func(args mock.Arguments) {
		arg0 := args[0].(int)
		var arg1 engine.Command
		if args[1] != nil {
			arg1 = args[1].(engine.Command)
		}
		run(arg0, arg1)
	})
	return _c
}

func (_c *MockControlPanelEngine_SubmitCommand_Call) Return(b bool) *MockControlPanelEngine_SubmitCommand_Call {
	_c.Call.Return(b)
	return _c
}

func (_c *MockControlPanelEngine_SubmitCommand_Call) RunAndReturn(run func(int, engine.Command) bool) *MockControlPanelEngine_SubmitCommand_Call {
	_c.Call.Return(run)
	return _c
}
