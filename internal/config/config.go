package config

import (
	"github.com/NautilusNFTs/nautilus-interface/internal/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Env        string
	Network    string
	Debug      bool
	LogDir     string
	ServerPort string

	MarketplaceFile string

	Ledger      ClientConfig
	Indexer     ClientConfig
	Swap        ClientConfig
	Signer      ClientConfig
	Marketplace MarketplaceConfig
	Staking     StakingConfig
}

type ClientConfig struct {
	Url      string
	Timeout  int
	Debug    bool
	CacheTtl int
}

type MarketplaceConfig struct {
	AppId             uint64
	WrappedNativeId   uint64
	NullAddress       string
	RoyaltyCap        uint64
	ListingBoxCost    uint64
	BalanceBoxCost    uint64
	PurchaseCostFloor uint64
	MinAvailable      uint64
	ListFee           uint64
	DeleteFee         uint64
	BulkDeleteFee     uint64
	TransferFee       uint64
	GroupSize         int
	BulkRate          float64
	Optins            map[uint64][]uint64
}

type StakingConfig struct {
	ProgramStart      int64
	MonthSeconds      int64
	MonthlyThreshold  uint64
	MinterAppId       uint64
	MintCost          uint64
	MintFee           uint64
	WithdrawFee       uint64
	ParticipateFee    uint64
	ParticipateCost   uint64
	WithdrawChunkSize int
}

const NullAddress = "G3MSA75OZEJTCCENOJDLDJK7UD7E2K5DNC7FVHCNOV7E3I4DTXTOWDUIFQ"

var defaultOptins = map[uint64][]uint64{
	29088600: {29103397},
	29085927: {33611293},
}

func Init(name string) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		zap.L().With(zap.Error(err)).Fatal("Unable to init config")
	}

	initLogger(name)
}

func initLogger(name string) {
	path := ""
	if dir := Get().LogDir; dir != "" {
		path = filepath.Join(dir, name+".log")
	}
	log.NewLogger(path, Get().Debug)
}

func Get() *Config {
	marketplaceFile := getString("MARKETPLACE_FILE", "")

	return &Config{
		Env:             getString("ENV", ""),
		Network:         getString("NETWORK", "voi-mainnet"),
		Debug:           getBool("DEBUG", false),
		LogDir:          getString("LOG_DIR", ""),
		ServerPort:      getString("SERVER_PORT", "8080"),
		MarketplaceFile: marketplaceFile,
		Ledger: ClientConfig{
			Url:     getString("LEDGER_URL", ""),
			Timeout: getInt("LEDGER_TIMEOUT", 30),
			Debug:   getBool("LEDGER_DEBUG", false),
		},
		Indexer: ClientConfig{
			Url:      getString("INDEXER_URL", "https://mainnet-idx.nautilus.sh"),
			Timeout:  getInt("INDEXER_TIMEOUT", 30),
			Debug:    getBool("INDEXER_DEBUG", false),
			CacheTtl: getInt("INDEXER_CACHE_TTL", 300),
		},
		Swap: ClientConfig{
			Url:     getString("SWAP_URL", ""),
			Timeout: getInt("SWAP_TIMEOUT", 30),
		},
		Signer: ClientConfig{
			Url:     getString("SIGNER_URL", ""),
			Timeout: getInt("SIGNER_TIMEOUT", 120),
		},
		Marketplace: MarketplaceConfig{
			AppId:             getUint64("MARKETPLACE_APP_ID", 29117863),
			WrappedNativeId:   getUint64("WRAPPED_NATIVE_ID", 390001),
			NullAddress:       getString("NULL_ADDRESS", NullAddress),
			RoyaltyCap:        getUint64("ROYALTY_CAP", 9500),
			ListingBoxCost:    getUint64("LISTING_BOX_COST", 120500),
			BalanceBoxCost:    getUint64("BALANCE_BOX_COST", 28500),
			PurchaseCostFloor: getUint64("PURCHASE_COST_FLOOR", 28500),
			MinAvailable:      getUint64("MIN_AVAILABLE_BALANCE", 123500),
			ListFee:           getUint64("LIST_FEE", 2000),
			DeleteFee:         getUint64("DELETE_FEE", 3000),
			BulkDeleteFee:     getUint64("BULK_DELETE_FEE", 2000),
			TransferFee:       getUint64("TRANSFER_FEE", 2000),
			GroupSize:         getInt("GROUP_SIZE", 12),
			BulkRate:          getFloat("BULK_SUBMIT_RATE", 1),
			Optins:            collectionOptins(marketplaceFile),
		},
		Staking: StakingConfig{
			ProgramStart:      int64(getUint64("STAKING_PROGRAM_START", 1729180800)),
			MonthSeconds:      int64(getUint64("STAKING_MONTH_SECONDS", 2630000)),
			MonthlyThreshold:  getUint64("STAKING_MONTHLY_THRESHOLD", 5),
			MinterAppId:       getUint64("STAKING_MINTER_APP_ID", 0),
			MintCost:          getUint64("STAKING_MINT_COST", 336700+100e6),
			MintFee:           getUint64("STAKING_MINT_FEE", 3000),
			WithdrawFee:       getUint64("STAKING_WITHDRAW_FEE", 5000),
			ParticipateFee:    getUint64("STAKING_PARTICIPATE_FEE", 5000),
			ParticipateCost:   getUint64("STAKING_PARTICIPATE_COST", 1000),
			WithdrawChunkSize: getInt("STAKING_WITHDRAW_CHUNK_SIZE", 8),
		},
	}
}

// collectionOptins reads the per-collection opt-in table from the marketplace file,
// keyed by collection app id. Missing or unreadable files fall back to the defaults.
func collectionOptins(path string) map[uint64][]uint64 {
	if path == "" {
		return defaultOptins
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		zap.L().With(zap.String("file", path), zap.Error(err)).Warn("Config: Unable to read marketplace file")
		return defaultOptins
	}

	raw := make(map[string][]uint64)
	if err := v.UnmarshalKey("optins", &raw); err != nil {
		zap.L().With(zap.String("file", path), zap.Error(err)).Warn("Config: Invalid optins table")
		return defaultOptins
	}

	optins := make(map[uint64][]uint64, len(raw))
	for key, apps := range raw {
		collectionId, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			zap.L().With(zap.String("collection", key)).Warn("Config: Skipping optins for invalid collection id")
			continue
		}
		optins[collectionId] = apps
	}

	return optins
}

func getString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func getInt(key string, defaultValue int) int {
	valStr := getString(key, "")
	val, _, err := big.ParseFloat(valStr, 10, 0, big.ToNearestEven)
	if err != nil {
		return defaultValue
	}

	intVal, _ := val.Int64()
	return int(intVal)
}

func getUint64(key string, defaultValue uint64) uint64 {
	valStr := getString(key, "")
	val, _, err := big.ParseFloat(valStr, 10, 0, big.ToNearestEven)
	if err != nil || val.Sign() < 0 {
		return defaultValue
	}

	uintVal, _ := val.Uint64()
	return uintVal
}

func getFloat(key string, defaultValue float64) float64 {
	valStr := getString(key, "")
	if val, err := strconv.ParseFloat(valStr, 64); err == nil {
		return val
	}

	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	valStr := getString(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultValue
}
