//go:build windows

package wmi

import (
	"codeberg.org/mutker/handheldctl/internal/errors"
	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

type oleInvoker struct{}

// NewInvoker returns the OLE-backed method transport.
func NewInvoker() (Invoker, error) {
	return &oleInvoker{}, nil
}

// Invoke connects to the scope, runs the query, and calls the method on the
// single matching object. Parameters are set by name on a spawned
// in-parameter instance, so the provider's declared order does not matter.
func (*oleInvoker) Invoke(scope, query, method string, params map[string]interface{}, outs ...string) (Result, error) {
	errFactory := errors.New()

	ole.CoInitialize(0)
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
	if err != nil {
		return nil, errFactory.Wrap(ErrProviderUnavailable, err)
	}
	defer unknown.Release()

	locator, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, errFactory.Wrap(ErrProviderUnavailable, err)
	}
	defer locator.Release()

	serviceRaw, err := oleutil.CallMethod(locator, "ConnectServer", nil, scope)
	if err != nil {
		return nil, errFactory.Wrap(ErrProviderUnavailable, err)
	}
	service := serviceRaw.ToIDispatch()
	defer service.Release()

	resultRaw, err := oleutil.CallMethod(service, "ExecQuery", query)
	if err != nil {
		return nil, errFactory.Wrap(ErrInvokeFailed, err)
	}
	collection := resultRaw.ToIDispatch()
	defer collection.Release()

	countVariant, err := oleutil.GetProperty(collection, "Count")
	if err != nil {
		return nil, errFactory.Wrap(ErrInvokeFailed, err)
	}
	if int(countVariant.Val) == 0 {
		return nil, errFactory.WithData(ErrObjectNotFound, query)
	}

	itemRaw, err := oleutil.CallMethod(collection, "ItemIndex", 0)
	if err != nil {
		return nil, errFactory.Wrap(ErrInvokeFailed, err)
	}
	item := itemRaw.ToIDispatch()
	defer item.Release()

	outParams, err := execMethod(item, method, params)
	if err != nil {
		return nil, err
	}
	if outParams == nil {
		return Result{}, nil
	}
	defer outParams.Release()

	result := Result{}
	for _, name := range outs {
		prop, err := oleutil.GetProperty(outParams, name)
		if err != nil {
			continue
		}
		result[name] = prop.Value()
		prop.Clear()
	}

	return result, nil
}

// execMethod spawns the method's in-parameter instance, fills it, and runs
// ExecMethod_ on the provider object.
func execMethod(item *ole.IDispatch, method string, params map[string]interface{}) (*ole.IDispatch, error) {
	errFactory := errors.New()

	if len(params) == 0 {
		resultRaw, err := oleutil.CallMethod(item, "ExecMethod_", method)
		if err != nil {
			return nil, errFactory.Wrap(ErrInvokeFailed, err)
		}

		return resultRaw.ToIDispatch(), nil
	}

	methodsRaw, err := oleutil.GetProperty(item, "Methods_")
	if err != nil {
		return nil, errFactory.Wrap(ErrInvokeFailed, err)
	}
	methods := methodsRaw.ToIDispatch()
	defer methods.Release()

	methodRaw, err := oleutil.CallMethod(methods, "Item", method)
	if err != nil {
		return nil, errFactory.Wrap(ErrInvokeFailed, err)
	}
	methodObj := methodRaw.ToIDispatch()
	defer methodObj.Release()

	inDefRaw, err := oleutil.GetProperty(methodObj, "InParameters")
	if err != nil {
		return nil, errFactory.Wrap(ErrInvokeFailed, err)
	}
	inDef := inDefRaw.ToIDispatch()
	defer inDef.Release()

	inInstRaw, err := oleutil.CallMethod(inDef, "SpawnInstance_")
	if err != nil {
		return nil, errFactory.Wrap(ErrInvokeFailed, err)
	}
	inInst := inInstRaw.ToIDispatch()
	defer inInst.Release()

	for name, value := range params {
		if _, err := oleutil.PutProperty(inInst, name, value); err != nil {
			return nil, errFactory.Wrap(ErrInvokeFailed, err)
		}
	}

	resultRaw, err := oleutil.CallMethod(item, "ExecMethod_", method, inInst)
	if err != nil {
		return nil, errFactory.Wrap(ErrInvokeFailed, err)
	}

	return resultRaw.ToIDispatch(), nil
}
