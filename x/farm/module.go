package farm

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/core/appmodule"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/grpc-ecosystem/grpc-gateway/runtime"
	"github.com/spf13/cobra"

	"github.com/openalpha/farmchain/x/farm/client/cli"
	"github.com/openalpha/farmchain/x/farm/keeper"
	"github.com/openalpha/farmchain/x/farm/types"
)

const (
	ModuleName = types.ModuleName
)

var (
	_ module.AppModuleBasic   = AppModuleBasic{}
	_ module.HasGenesis       = AppModule{}
	_ appmodule.AppModule     = AppModule{}
	_ appmodule.HasEndBlocker = AppModule{}
)

// AppModuleBasic defines the basic application module for farm
type AppModuleBasic struct{}

// Name returns the module's name
func (AppModuleBasic) Name() string {
	return ModuleName
}

// RegisterLegacyAminoCodec registers the module's types on the given LegacyAmino codec
func (AppModuleBasic) RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&types.MsgDeposit{}, "farm/MsgDeposit", nil)
	cdc.RegisterConcrete(&types.MsgWithdraw{}, "farm/MsgWithdraw", nil)
	cdc.RegisterConcrete(&types.MsgEmergencyWithdraw{}, "farm/MsgEmergencyWithdraw", nil)
	cdc.RegisterConcrete(&types.MsgHarvestMany{}, "farm/MsgHarvestMany", nil)
	cdc.RegisterConcrete(&types.MsgUpdatePool{}, "farm/MsgUpdatePool", nil)
	cdc.RegisterConcrete(&types.MsgMassUpdatePools{}, "farm/MsgMassUpdatePools", nil)
	cdc.RegisterConcrete(&types.MsgAddPool{}, "farm/MsgAddPool", nil)
	cdc.RegisterConcrete(&types.MsgSetPool{}, "farm/MsgSetPool", nil)
	cdc.RegisterConcrete(&types.MsgUpdateEmissionRate{}, "farm/MsgUpdateEmissionRate", nil)
	cdc.RegisterConcrete(&types.MsgUpdateSplits{}, "farm/MsgUpdateSplits", nil)
	cdc.RegisterConcrete(&types.MsgSetRecipient{}, "farm/MsgSetRecipient", nil)
	cdc.RegisterConcrete(&types.MsgSetPaused{}, "farm/MsgSetPaused", nil)
	cdc.RegisterConcrete(&types.MsgRecoverTokens{}, "farm/MsgRecoverTokens", nil)
}

// RegisterInterfaces registers the module's interface types
func (AppModuleBasic) RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	types.RegisterInterfaces(registry)
}

// DefaultGenesis returns default genesis state as raw bytes
func (AppModuleBasic) DefaultGenesis(cdc codec.JSONCodec) json.RawMessage {
	bz, _ := json.Marshal(types.DefaultGenesis())
	return bz
}

// ValidateGenesis performs genesis state validation
func (AppModuleBasic) ValidateGenesis(cdc codec.JSONCodec, config client.TxEncodingConfig, bz json.RawMessage) error {
	var gs types.GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return fmt.Errorf("failed to unmarshal %s genesis state: %w", ModuleName, err)
	}
	return gs.Validate()
}

// RegisterGRPCGatewayRoutes registers the gRPC Gateway routes for the module
func (AppModuleBasic) RegisterGRPCGatewayRoutes(clientCtx client.Context, mux *runtime.ServeMux) {}

// GetTxCmd returns the root tx command for the module
func (AppModuleBasic) GetTxCmd() *cobra.Command {
	return cli.GetTxCmd()
}

// GetQueryCmd returns the root query command for the module
func (AppModuleBasic) GetQueryCmd() *cobra.Command {
	return cli.GetQueryCmd()
}

// AppModule implements an application module for the farm module
type AppModule struct {
	AppModuleBasic
	keeper    *keeper.Keeper
	msgServer *keeper.MsgServer
}

// NewAppModule creates a new AppModule object
func NewAppModule(k *keeper.Keeper) AppModule {
	return AppModule{
		AppModuleBasic: AppModuleBasic{},
		keeper:         k,
		msgServer:      keeper.NewMsgServerImpl(k),
	}
}

// Name returns the module's name
func (am AppModule) Name() string {
	return ModuleName
}

// RegisterServices registers module services. Messages are JSON encoded
// and dispatched through Route rather than a generated gRPC service.
func (am AppModule) RegisterServices(cfg module.Configurator) {}

// Route executes a farm message
func (am AppModule) Route(ctx context.Context, msg sdk.Msg) (any, error) {
	return am.msgServer.Handle(ctx, msg)
}

// InitGenesis loads the module state from raw genesis bytes
func (am AppModule) InitGenesis(ctx sdk.Context, cdc codec.JSONCodec, bz json.RawMessage) {
	var gs types.GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		panic(fmt.Errorf("failed to unmarshal %s genesis state: %w", ModuleName, err))
	}
	am.keeper.InitGenesis(ctx, gs)
}

// ExportGenesis exports the module state as raw genesis bytes
func (am AppModule) ExportGenesis(ctx sdk.Context, cdc codec.JSONCodec) json.RawMessage {
	bz, err := json.Marshal(am.keeper.ExportGenesis(ctx))
	if err != nil {
		panic(err)
	}
	return bz
}

// IsOnePerModuleType implements the depinject.OnePerModuleType interface
func (am AppModule) IsOnePerModuleType() {}

// IsAppModule implements the appmodule.AppModule interface
func (am AppModule) IsAppModule() {}

// EndBlock exports the farm gauges
func (am AppModule) EndBlock(ctx context.Context) error {
	return am.keeper.EndBlocker(sdk.UnwrapSDKContext(ctx))
}
