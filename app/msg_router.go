package app

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// RouteFunc executes a message inside its module
type RouteFunc func(ctx context.Context, msg sdk.Msg) (any, error)

// routedMsg is implemented by every farm, rewarder and vault message
type routedMsg interface {
	Route() string
}

// MsgRouter dispatches JSON encoded module messages by module name
type MsgRouter struct {
	routes map[string]RouteFunc
}

// NewMsgRouter returns an empty router
func NewMsgRouter() *MsgRouter {
	return &MsgRouter{routes: make(map[string]RouteFunc)}
}

// AddRoute registers a module handler. Registering a module twice panics.
func (r *MsgRouter) AddRoute(module string, fn RouteFunc) {
	if _, ok := r.routes[module]; ok {
		panic(fmt.Sprintf("route %s already registered", module))
	}
	r.routes[module] = fn
}

// Route executes msg through the handler of the module it names
func (r *MsgRouter) Route(ctx context.Context, msg sdk.Msg) (any, error) {
	rm, ok := msg.(routedMsg)
	if !ok {
		return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "message %T has no route", msg)
	}
	fn, ok := r.routes[rm.Route()]
	if !ok {
		return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "no handler for module %s", rm.Route())
	}
	return fn(ctx, msg)
}
