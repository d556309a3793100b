package app

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"cosmossdk.io/core/appmodule"
	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	abci "github.com/cometbft/cometbft/abci/types"
	cmtcrypto "github.com/cometbft/cometbft/proto/tendermint/crypto"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/baseapp"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/grpc/cmtservice"
	nodeservice "github.com/cosmos/cosmos-sdk/client/grpc/node"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/server/api"
	"github.com/cosmos/cosmos-sdk/server/config"
	servertypes "github.com/cosmos/cosmos-sdk/server/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/cosmos/cosmos-sdk/x/auth"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtx "github.com/cosmos/cosmos-sdk/x/auth/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/cosmos/cosmos-sdk/x/bank"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/cosmos/cosmos-sdk/x/consensus"
	consensusparamkeeper "github.com/cosmos/cosmos-sdk/x/consensus/keeper"
	consensusparamtypes "github.com/cosmos/cosmos-sdk/x/consensus/types"
	"github.com/cosmos/cosmos-sdk/x/genutil"
	genutiltypes "github.com/cosmos/cosmos-sdk/x/genutil/types"
	"github.com/cosmos/cosmos-sdk/x/staking"
	gogoprotograpc "github.com/cosmos/gogoproto/grpc"
	"github.com/spf13/cast"

	"github.com/openalpha/farmchain/metrics"
	"github.com/openalpha/farmchain/x/farm"
	farmkeeper "github.com/openalpha/farmchain/x/farm/keeper"
	"github.com/openalpha/farmchain/x/farm/rewarder"
	farmtypes "github.com/openalpha/farmchain/x/farm/types"
	"github.com/openalpha/farmchain/x/lockvault"
	vaultkeeper "github.com/openalpha/farmchain/x/lockvault/keeper"
	vaulttypes "github.com/openalpha/farmchain/x/lockvault/types"
)

const (
	Name = "farmchain"

	// EndBlockWarnThreshold is the EndBlocker latency that triggers a warning
	EndBlockWarnThreshold = 100 * time.Millisecond
)

// app.toml keys of the [farm] section
const (
	FlagMetricsEnabled = "farm.metrics-enabled"
	FlagMetricsAddress = "farm.metrics-address"
)

var (
	// DefaultNodeHome default home directories for the application daemon
	DefaultNodeHome string

	// ModuleBasics defines the module BasicManager used for codec registration
	ModuleBasics = module.NewBasicManager(
		auth.AppModuleBasic{},
		bank.AppModuleBasic{},
		staking.AppModuleBasic{},
		genutil.NewAppModuleBasic(genutiltypes.DefaultMessageValidator),
		consensus.AppModuleBasic{},
		farm.AppModuleBasic{},
		rewarder.AppModuleBasic{},
		lockvault.AppModuleBasic{},
	)

	// module account permissions
	maccPerms = map[string][]string{
		authtypes.FeeCollectorName:  nil,
		farmtypes.ModuleName:        {authtypes.Minter},
		farmtypes.ReserveModuleName: nil,
		rewarder.ModuleName:         nil,
		vaulttypes.ModuleName:       {authtypes.Minter, authtypes.Burner},
	}
)

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	DefaultNodeHome = filepath.Join(userHomeDir, ".farmchain")
}

// App extends an ABCI application
type App struct {
	*baseapp.BaseApp

	legacyAmino       *codec.LegacyAmino
	appCodec          codec.Codec
	interfaceRegistry codectypes.InterfaceRegistry
	txConfig          client.TxConfig

	// Keys
	keys    map[string]*storetypes.KVStoreKey
	tkeys   map[string]*storetypes.TransientStoreKey
	memKeys map[string]*storetypes.MemoryStoreKey

	// SDK Keepers
	ConsensusParamsKeeper consensusparamkeeper.Keeper
	AccountKeeper         authkeeper.AccountKeeper
	BankKeeper            bankkeeper.BaseKeeper

	// Custom module keepers
	FarmKeeper     *farmkeeper.Keeper
	RewarderKeeper *rewarder.Keeper
	VaultKeeper    *vaultkeeper.Keeper

	// Module Manager
	BasicModuleManager module.BasicManager
	ModuleManager      *module.Manager

	msgRouter *MsgRouter
}

// NewApp returns a new App instance
func NewApp(
	logger log.Logger,
	db dbm.DB,
	traceStore io.Writer,
	loadLatest bool,
	appOpts servertypes.AppOptions,
	baseAppOptions ...func(*baseapp.BaseApp),
) *App {
	encodingConfig := MakeEncodingConfig()
	appCodec := encodingConfig.Codec
	legacyAmino := encodingConfig.Amino
	interfaceRegistry := encodingConfig.InterfaceRegistry

	bApp := baseapp.NewBaseApp(Name, logger, db, encodingConfig.TxConfig.TxDecoder(), baseAppOptions...)
	bApp.SetCommitMultiStoreTracer(traceStore)
	bApp.SetInterfaceRegistry(interfaceRegistry)

	keys := storetypes.NewKVStoreKeys(StoreKeys()...)
	tkeys := storetypes.NewTransientStoreKeys()
	memKeys := storetypes.NewMemoryStoreKeys()

	app := &App{
		BaseApp:            bApp,
		legacyAmino:        legacyAmino,
		appCodec:           appCodec,
		interfaceRegistry:  interfaceRegistry,
		txConfig:           encodingConfig.TxConfig,
		keys:               keys,
		tkeys:              tkeys,
		memKeys:            memKeys,
		BasicModuleManager: ModuleBasics,
	}

	// Every privileged message is checked against the governance address
	authority := authtypes.NewModuleAddress("gov").String()

	app.ConsensusParamsKeeper = consensusparamkeeper.NewKeeper(
		appCodec,
		runtime.NewKVStoreService(keys[consensusparamtypes.StoreKey]),
		authority,
		runtime.EventService{},
	)
	bApp.SetParamStore(app.ConsensusParamsKeeper.ParamsStore)

	addrCodec := address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix())

	app.AccountKeeper = authkeeper.NewAccountKeeper(
		appCodec,
		runtime.NewKVStoreService(keys[authtypes.StoreKey]),
		authtypes.ProtoBaseAccount,
		maccPerms,
		addrCodec,
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority,
	)

	app.BankKeeper = bankkeeper.NewBaseKeeper(
		appCodec,
		runtime.NewKVStoreService(keys[banktypes.StoreKey]),
		app.AccountKeeper,
		BlockedModuleAccountAddrs(maccPerms),
		authority,
		logger,
	)

	app.FarmKeeper = farmkeeper.NewKeeper(
		appCodec,
		keys[farmtypes.StoreKey],
		app.AccountKeeper,
		app.BankKeeper,
		authority,
		logger,
	)
	app.RewarderKeeper = rewarder.NewKeeper(
		keys[rewarder.StoreKey],
		app.AccountKeeper,
		app.BankKeeper,
		authority,
		logger,
	)
	app.FarmKeeper.RegisterRewarder(rewarder.ModuleName, app.RewarderKeeper)

	app.VaultKeeper = vaultkeeper.NewKeeper(
		keys[vaulttypes.StoreKey],
		app.AccountKeeper,
		app.BankKeeper,
		app.FarmKeeper,
		authority,
		logger,
	)

	farmModule := farm.NewAppModule(app.FarmKeeper)
	rewarderModule := rewarder.NewAppModule(app.RewarderKeeper)
	vaultModule := lockvault.NewAppModule(app.VaultKeeper)

	app.ModuleManager = module.NewManager(
		auth.NewAppModule(appCodec, app.AccountKeeper, nil, nil),
		bank.NewAppModule(appCodec, app.BankKeeper, app.AccountKeeper, nil),
		farmModule,
		rewarderModule,
		vaultModule,
	)
	genesisOrder := []string{
		authtypes.ModuleName,
		banktypes.ModuleName,
		farmtypes.ModuleName,
		rewarder.ModuleName,
		vaulttypes.ModuleName,
	}
	app.ModuleManager.SetOrderInitGenesis(genesisOrder...)
	app.ModuleManager.SetOrderExportGenesis(genesisOrder...)
	app.ModuleManager.SetOrderEndBlockers(farmtypes.ModuleName, vaulttypes.ModuleName)

	// Messages are JSON encoded and routed by module name
	app.msgRouter = NewMsgRouter()
	app.msgRouter.AddRoute(farmtypes.ModuleName, farmModule.Route)
	app.msgRouter.AddRoute(rewarder.ModuleName, rewarderModule.Route)
	app.msgRouter.AddRoute(vaulttypes.ModuleName, vaultModule.Route)

	authtypes.RegisterQueryServer(bApp.GRPCQueryRouter(), authkeeper.NewQueryServer(app.AccountKeeper))
	banktypes.RegisterQueryServer(bApp.GRPCQueryRouter(), bankkeeper.NewQuerier(&app.BankKeeper))

	app.MountKVStores(keys)
	app.MountTransientStores(tkeys)
	app.MountMemoryStores(memKeys)

	app.SetInitChainer(app.InitChainer)
	app.SetBeginBlocker(app.BeginBlocker)
	app.SetEndBlocker(app.EndBlocker)

	if appOpts != nil && cast.ToBool(appOpts.Get(FlagMetricsEnabled)) {
		startMetricsServer(logger, cast.ToString(appOpts.Get(FlagMetricsAddress)))
	}

	if loadLatest {
		if err := app.LoadLatestVersion(); err != nil {
			panic(err)
		}
	}

	return app
}

// StoreKeys lists the KV store of every module. No name may be a prefix of
// another.
func StoreKeys() []string {
	return []string{
		authtypes.StoreKey,
		banktypes.StoreKey,
		consensusparamtypes.StoreKey,
		farmtypes.StoreKey,
		rewarder.StoreKey,
		vaulttypes.StoreKey,
	}
}

// startMetricsServer serves the farm and vault gauges in the background
func startMetricsServer(logger log.Logger, addr string) {
	if addr == "" {
		addr = DefaultMetricsAddress
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	go func() {
		logger.Info("Metrics server started", "address", addr)
		if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
}

// Name returns the name of the App
func (app *App) Name() string { return app.BaseApp.Name() }

// BeginBlocker executes begin block logic
func (app *App) BeginBlocker(ctx sdk.Context) (sdk.BeginBlock, error) {
	return sdk.BeginBlock{}, nil
}

// EndBlocker runs the module end blockers and logs their latency
func (app *App) EndBlocker(ctx sdk.Context) (sdk.EndBlock, error) {
	logger := app.Logger()
	start := time.Now()

	res, err := app.ModuleManager.EndBlock(ctx)
	if err != nil {
		logger.Error("end blocker failed", "block", ctx.BlockHeight(), "error", err)
		return res, err
	}

	duration := time.Since(start)
	metrics.GetCollector().RecordEndBlock(Name, float64(duration.Microseconds())/1000)

	if duration > EndBlockWarnThreshold {
		logger.Warn("EndBlocker exceeded latency threshold",
			"block", ctx.BlockHeight(),
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", EndBlockWarnThreshold.Milliseconds(),
		)
	}
	return res, nil
}

// DeliverMsg routes a message to its module. State changes are written only
// when the handler succeeds.
func (app *App) DeliverMsg(ctx sdk.Context, msg sdk.Msg) (any, error) {
	cacheCtx, write := ctx.CacheContext()
	res, err := app.msgRouter.Route(cacheCtx, msg)
	if err != nil {
		return nil, err
	}
	write()
	return res, nil
}

// StakingGenesisState represents the staking module's genesis state
type StakingGenesisState struct {
	Validators []struct {
		ConsensusPubkey struct {
			Type string `json:"@type"`
			Key  string `json:"key"`
		} `json:"consensus_pubkey"`
		Tokens string `json:"tokens"`
		Status string `json:"status"`
	} `json:"validators"`
}

// GenutilGenesisState represents the genutil module's genesis state
type GenutilGenesisState struct {
	GenTxs []json.RawMessage `json:"gen_txs"`
}

// GenTx represents a genesis transaction
type GenTx struct {
	Body struct {
		Messages []json.RawMessage `json:"messages"`
	} `json:"body"`
}

// MsgCreateValidator represents the create validator message
type MsgCreateValidator struct {
	Type   string `json:"@type"`
	Pubkey struct {
		Type string `json:"@type"`
		Key  string `json:"key"`
	} `json:"pubkey"`
}

// InitChainer loads every module's genesis and picks the initial validator set
func (app *App) InitChainer(ctx sdk.Context, req *abci.RequestInitChain) (*abci.ResponseInitChain, error) {
	var genesisState map[string]json.RawMessage
	if err := json.Unmarshal(req.AppStateBytes, &genesisState); err != nil {
		return nil, err
	}

	// Modules are initialised one by one. The manager's InitGenesis insists on
	// a validator set coming from a staking module, which this chain lacks.
	for _, name := range app.ModuleManager.OrderInitGenesis {
		bz, ok := genesisState[name]
		if !ok {
			continue
		}
		switch mod := app.ModuleManager.Modules[name].(type) {
		case module.HasGenesis:
			mod.InitGenesis(ctx, app.appCodec, bz)
		case module.HasABCIGenesis:
			mod.InitGenesis(ctx, app.appCodec, bz)
		}
	}

	// the farm, reserve and rewarder accounts receive plain transfers
	for name := range maccPerms {
		app.AccountKeeper.GetModuleAccount(ctx, name)
	}

	if len(req.Validators) > 0 {
		return &abci.ResponseInitChain{
			Validators: req.Validators,
		}, nil
	}

	return &abci.ResponseInitChain{
		Validators: genesisValidators(genesisState),
	}, nil
}

// genesisValidators reads bonded validators from the staking genesis, falling
// back to the create-validator messages of the gentxs.
func genesisValidators(genesisState map[string]json.RawMessage) []abci.ValidatorUpdate {
	var validators []abci.ValidatorUpdate
	add := func(key string) {
		pubKeyBytes, err := base64.StdEncoding.DecodeString(key)
		if err != nil {
			return
		}
		validators = append(validators, abci.ValidatorUpdate{
			PubKey: cmtcrypto.PublicKey{
				Sum: &cmtcrypto.PublicKey_Ed25519{
					Ed25519: pubKeyBytes,
				},
			},
			Power: 100,
		})
	}

	if stakingGenesis, ok := genesisState["staking"]; ok {
		var stakingState StakingGenesisState
		if err := json.Unmarshal(stakingGenesis, &stakingState); err == nil {
			for _, val := range stakingState.Validators {
				if val.Status == "BOND_STATUS_BONDED" {
					add(val.ConsensusPubkey.Key)
				}
			}
		}
	}
	if len(validators) > 0 {
		return validators
	}

	genutilGenesis, ok := genesisState["genutil"]
	if !ok {
		return nil
	}
	var genutilState GenutilGenesisState
	if err := json.Unmarshal(genutilGenesis, &genutilState); err != nil {
		return nil
	}
	for _, genTxRaw := range genutilState.GenTxs {
		var genTx GenTx
		if err := json.Unmarshal(genTxRaw, &genTx); err != nil {
			continue
		}
		for _, msgRaw := range genTx.Body.Messages {
			var msg MsgCreateValidator
			if err := json.Unmarshal(msgRaw, &msg); err != nil {
				continue
			}
			if msg.Type == "/cosmos.staking.v1beta1.MsgCreateValidator" {
				add(msg.Pubkey.Key)
			}
		}
	}
	return validators
}

// LoadHeight loads a particular height
func (app *App) LoadHeight(height int64) error {
	return app.LoadVersion(height)
}

// LegacyAmino returns the legacy amino codec
func (app *App) LegacyAmino() *codec.LegacyAmino {
	return app.legacyAmino
}

// AppCodec returns the app codec
func (app *App) AppCodec() codec.Codec {
	return app.appCodec
}

// InterfaceRegistry returns the InterfaceRegistry
func (app *App) InterfaceRegistry() codectypes.InterfaceRegistry {
	return app.interfaceRegistry
}

// DefaultGenesis returns the default genesis of every registered module
func (app *App) DefaultGenesis() map[string]json.RawMessage {
	return ModuleBasics.DefaultGenesis(app.appCodec)
}

// RegisterAPIRoutes registers all application module routes
func (app *App) RegisterAPIRoutes(apiSvr *api.Server, apiConfig config.APIConfig) {
	clientCtx := apiSvr.ClientCtx
	ModuleBasics.RegisterGRPCGatewayRoutes(clientCtx, apiSvr.GRPCGatewayRouter)
}

// GetKey returns a store key
func (app *App) GetKey(storeKey string) *storetypes.KVStoreKey {
	return app.keys[storeKey]
}

// GetTKey returns a transient store key
func (app *App) GetTKey(storeKey string) *storetypes.TransientStoreKey {
	return app.tkeys[storeKey]
}

// GetMemKey returns a memory store key
func (app *App) GetMemKey(storeKey string) *storetypes.MemoryStoreKey {
	return app.memKeys[storeKey]
}

// TxConfig returns the transaction config
func (app *App) TxConfig() client.TxConfig {
	return app.txConfig
}

// AutoCliOpts returns the autocli options for the app
func (app *App) AutoCliOpts() map[string]appmodule.AppModule {
	return map[string]appmodule.AppModule{}
}

// RegisterTxService implements the Application.RegisterTxService method
func (app *App) RegisterTxService(clientCtx client.Context) {
	authtx.RegisterTxService(app.BaseApp.GRPCQueryRouter(), clientCtx, app.BaseApp.Simulate, app.interfaceRegistry)
}

// RegisterTendermintService implements the Application.RegisterTendermintService method
func (app *App) RegisterTendermintService(clientCtx client.Context) {
	cmtservice.RegisterTendermintService(
		clientCtx,
		app.BaseApp.GRPCQueryRouter(),
		app.interfaceRegistry,
		app.Query,
	)
}

// RegisterNodeService implements the Application.RegisterNodeService method
func (app *App) RegisterNodeService(clientCtx client.Context, cfg config.Config) {
	nodeservice.RegisterNodeService(clientCtx, app.BaseApp.GRPCQueryRouter(), cfg)
}

// RegisterGRPCServer registers the app's gRPC services
func (app *App) RegisterGRPCServer(server gogoprotograpc.Server) {}

// SimulationManager returns the app's simulation manager
func (app *App) SimulationManager() *module.SimulationManager {
	return nil
}

// ModuleAccountPerms returns a copy of the module account permissions
func ModuleAccountPerms() map[string][]string {
	perms := make(map[string][]string, len(maccPerms))
	for name, p := range maccPerms {
		perms[name] = p
	}
	return perms
}

// BlockedModuleAccountAddrs returns module account addresses that should not
// receive coins. The farm, reserve, rewarder and vault accounts move funds
// on every deposit and payout so they stay open.
func BlockedModuleAccountAddrs(maccPerms map[string][]string) map[string]bool {
	blockedAddrs := make(map[string]bool)
	for acc := range maccPerms {
		blockedAddrs[authtypes.NewModuleAddress(acc).String()] = true
	}
	for _, acc := range []string{farmtypes.ModuleName, farmtypes.ReserveModuleName, rewarder.ModuleName, vaulttypes.ModuleName} {
		delete(blockedAddrs, authtypes.NewModuleAddress(acc).String())
	}
	return blockedAddrs
}
