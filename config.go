package scrubber

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jay-jlm/scrubber/util"
)

// CanonicalConfig provides application-wide access to configuration fields,
// as well as loading/file watching logic for the scrubber's configuration file.
// The exported fields are rewritten in place by the reload path while other
// goroutines read them without locking; a reader may see a value from the
// previous load for a tick, which is tolerated last-write-wins just like the
// shared cells.
type CanonicalConfig struct {
	Theme *themeMap

	ThumbWidth   float32
	TrackHeight  float32
	BubbleOffset float32

	Disabled              bool
	TapToSeek             bool
	PanActivationDistance float32

	HitSlop struct {
		Top    float32
		Bottom float32
		Left   float32
		Right  float32
	}

	ValuePrecision int

	InvertX bool

	ConnectionInfo struct {
		COMPort  string
		BaudRate int
	}

	UDPPort int

	logger             *zap.SugaredLogger
	notifier           Notifier
	stopWatcherChannel chan bool

	reloadConsumers []chan bool

	userConfig     *viper.Viper
	internalConfig *viper.Viper
}

const (
	userConfigFilepath = "config.yaml"

	userConfigName     = "config"
	internalConfigName = "preferences"

	userConfigPath = "."

	configType = "yaml"

	configKeyTheme                 = "theme"
	configKeyThumbWidth            = "thumb_width"
	configKeyTrackHeight           = "track_height"
	configKeyBubbleOffset          = "bubble_offset"
	configKeyDisabled              = "disabled"
	configKeyTapToSeek             = "tap_to_seek"
	configKeyPanActivationDistance = "pan_activation_distance"
	configKeyHitSlopTop            = "hit_slop.top"
	configKeyHitSlopBottom         = "hit_slop.bottom"
	configKeyHitSlopLeft           = "hit_slop.left"
	configKeyHitSlopRight          = "hit_slop.right"
	configKeyValuePrecision        = "value_precision"
	configKeyInvertX               = "invert_x"
	configKeyCOMPort               = "com_port"
	configKeyBaudRate              = "baud_rate"
	configKeyUDPPort               = "udp_port"

	defaultThumbWidth            = 15.0
	defaultTrackHeight           = 30.0
	defaultBubbleOffset          = 25.0
	defaultPanActivationDistance = 10.0
	defaultHitSlop               = 8.0
	defaultValuePrecision        = 2

	defaultCOMPort  = "COM4"
	defaultBaudRate = 9600
	defaultUDPPort  = 16990
)

// has to be defined as a non-constant because we're using path.Join
var internalConfigPath = path.Join(".", logDirectory)

// NewConfig creates a config instance for the scrubber object and sets up
// viper instances for its config files
func NewConfig(logger *zap.SugaredLogger, notifier Notifier) (*CanonicalConfig, error) {
	logger = logger.Named("config")

	cc := &CanonicalConfig{
		logger:             logger,
		notifier:           notifier,
		reloadConsumers:    []chan bool{},
		stopWatcherChannel: make(chan bool),
	}

	// distinguish between the user-provided config (config.yaml) and the
	// internal config (logs/preferences.yaml)
	userConfig := viper.New()
	userConfig.SetConfigName(userConfigName)
	userConfig.SetConfigType(configType)
	userConfig.AddConfigPath(userConfigPath)

	userConfig.SetDefault(configKeyTheme, map[string]string{})
	userConfig.SetDefault(configKeyThumbWidth, defaultThumbWidth)
	userConfig.SetDefault(configKeyTrackHeight, defaultTrackHeight)
	userConfig.SetDefault(configKeyBubbleOffset, defaultBubbleOffset)
	userConfig.SetDefault(configKeyDisabled, false)
	userConfig.SetDefault(configKeyTapToSeek, true)
	userConfig.SetDefault(configKeyPanActivationDistance, defaultPanActivationDistance)
	userConfig.SetDefault(configKeyHitSlopTop, defaultHitSlop)
	userConfig.SetDefault(configKeyHitSlopBottom, defaultHitSlop)
	userConfig.SetDefault(configKeyHitSlopLeft, defaultHitSlop)
	userConfig.SetDefault(configKeyHitSlopRight, defaultHitSlop)
	userConfig.SetDefault(configKeyValuePrecision, defaultValuePrecision)
	userConfig.SetDefault(configKeyInvertX, false)
	userConfig.SetDefault(configKeyCOMPort, defaultCOMPort)
	userConfig.SetDefault(configKeyBaudRate, defaultBaudRate)
	userConfig.SetDefault(configKeyUDPPort, defaultUDPPort)

	internalConfig := viper.New()
	internalConfig.SetConfigName(internalConfigName)
	internalConfig.SetConfigType(configType)
	internalConfig.AddConfigPath(internalConfigPath)

	cc.userConfig = userConfig
	cc.internalConfig = internalConfig

	logger.Debug("Created config instance")

	return cc, nil
}

// Load reads the config files from disk and tries to parse them
func (cc *CanonicalConfig) Load() error {
	cc.logger.Debugw("Loading config", "path", userConfigFilepath)

	// make sure it exists
	if !util.FileExists(userConfigFilepath) {
		cc.logger.Warnw("Config file not found", "path", userConfigFilepath)
		cc.notifier.Notify("Can't find configuration!",
			fmt.Sprintf("%s must be in the same directory as the scrubber. Please re-launch", userConfigFilepath))

		return fmt.Errorf("config file doesn't exist: %s", userConfigFilepath)
	}

	// load the user config
	if err := cc.userConfig.ReadInConfig(); err != nil {
		cc.logger.Warnw("Viper failed to read user config", "error", err)

		// if the error is yaml-format-related, show a sensible error. otherwise, show 'em to the logs
		if strings.Contains(err.Error(), "yaml:") {
			cc.notifier.Notify("Invalid configuration!",
				fmt.Sprintf("Please make sure %s is in a valid YAML format.", userConfigFilepath))
		} else {
			cc.notifier.Notify("Error loading configuration!", "Please check the logs for more details.")
		}

		return fmt.Errorf("read user config: %w", err)
	}

	// load the internal config - this doesn't have to exist, so it can error
	if err := cc.internalConfig.ReadInConfig(); err != nil {
		cc.logger.Debugw("Viper failed to read internal config", "error", err, "reminder", "this is fine")
	}

	// canonize the configuration with viper's helpers
	if err := cc.populateFromVipers(); err != nil {
		cc.logger.Warnw("Failed to populate config fields", "error", err)
		return fmt.Errorf("populate config fields: %w", err)
	}

	cc.logger.Info("Loaded config successfully")
	cc.logger.Infow("Config values",
		"theme", cc.Theme,
		"thumbWidth", cc.ThumbWidth,
		"disabled", cc.Disabled,
		"tapToSeek", cc.TapToSeek,
		"connectionInfo", cc.ConnectionInfo,
		"udpPort", cc.UDPPort,
		"invertX", cc.InvertX)

	return nil
}

// SubscribeToChanges allows external components to receive updates when the config is reloaded
func (cc *CanonicalConfig) SubscribeToChanges() chan bool {
	c := make(chan bool)
	cc.reloadConsumers = append(cc.reloadConsumers, c)

	return c
}

// WatchConfigFileChanges starts watching for configuration file changes
// and attempts reloading the config when they happen
func (cc *CanonicalConfig) WatchConfigFileChanges() {
	cc.logger.Debugw("Starting to watch user config file for changes", "path", userConfigFilepath)

	const (
		minTimeBetweenReloadAttempts = time.Millisecond * 500
		delayBetweenEventAndReload   = time.Millisecond * 50
	)

	lastAttemptedReload := time.Now()

	// establish watch using viper as opposed to doing it ourselves, though our internal cooldown is still required
	cc.userConfig.WatchConfig()
	cc.userConfig.OnConfigChange(func(event fsnotify.Event) {

		// when we get a write event...
		if event.Op&fsnotify.Write == fsnotify.Write {

			now := time.Now()

			// ... check if it's not a duplicate (many editors will write to a file twice)
			if lastAttemptedReload.Add(minTimeBetweenReloadAttempts).Before(now) {

				// and attempt reload if appropriate
				cc.logger.Debugw("Config file modified, attempting reload", "event", event)

				// wait a bit to let the editor actually flush the new file contents to disk
				<-time.After(delayBetweenEventAndReload)

				if err := cc.Load(); err != nil {
					cc.logger.Warnw("Failed to reload config file", "error", err)
				} else {
					cc.logger.Info("Reloaded config successfully")
					cc.notifier.Notify("Configuration reloaded!", "Your changes have been applied.")

					cc.onConfigReloaded()
				}

				// don't forget to update the time
				lastAttemptedReload = now
			}
		}
	})

	// wait till they stop us
	<-cc.stopWatcherChannel
	cc.logger.Debug("Stopping user config file watcher")
	cc.userConfig.OnConfigChange(nil)
}

// StopWatchingConfigFile signals our filesystem watcher to stop
func (cc *CanonicalConfig) StopWatchingConfigFile() {
	cc.stopWatcherChannel <- true
}

func (cc *CanonicalConfig) populateFromVipers() error {

	// merge the theme from the user and internal configs
	cc.Theme = themeMapFromConfigs(
		cc.userConfig.GetStringMapString(configKeyTheme),
		cc.internalConfig.GetStringMapString(configKeyTheme),
	)

	// get the rest of the config fields - viper saves us a lot of effort here
	cc.ThumbWidth = float32(cc.userConfig.GetFloat64(configKeyThumbWidth))
	if cc.ThumbWidth <= 0 {
		cc.logger.Warnw("Invalid thumb width specified, using default value",
			"key", configKeyThumbWidth,
			"invalidValue", cc.ThumbWidth,
			"defaultValue", defaultThumbWidth)

		cc.ThumbWidth = defaultThumbWidth
	}

	cc.TrackHeight = float32(cc.userConfig.GetFloat64(configKeyTrackHeight))
	if cc.TrackHeight <= 0 {
		cc.logger.Warnw("Invalid track height specified, using default value",
			"key", configKeyTrackHeight,
			"invalidValue", cc.TrackHeight,
			"defaultValue", defaultTrackHeight)

		cc.TrackHeight = defaultTrackHeight
	}

	cc.BubbleOffset = float32(cc.userConfig.GetFloat64(configKeyBubbleOffset))

	cc.Disabled = cc.userConfig.GetBool(configKeyDisabled)
	cc.TapToSeek = cc.userConfig.GetBool(configKeyTapToSeek)

	cc.PanActivationDistance = float32(cc.userConfig.GetFloat64(configKeyPanActivationDistance))
	if cc.PanActivationDistance < 0 {
		cc.logger.Warnw("Invalid pan activation distance specified, using default value",
			"key", configKeyPanActivationDistance,
			"invalidValue", cc.PanActivationDistance,
			"defaultValue", defaultPanActivationDistance)

		cc.PanActivationDistance = defaultPanActivationDistance
	}

	cc.HitSlop.Top = float32(cc.userConfig.GetFloat64(configKeyHitSlopTop))
	cc.HitSlop.Bottom = float32(cc.userConfig.GetFloat64(configKeyHitSlopBottom))
	cc.HitSlop.Left = float32(cc.userConfig.GetFloat64(configKeyHitSlopLeft))
	cc.HitSlop.Right = float32(cc.userConfig.GetFloat64(configKeyHitSlopRight))

	cc.ValuePrecision = cc.userConfig.GetInt(configKeyValuePrecision)
	if cc.ValuePrecision < 0 || cc.ValuePrecision > 6 {
		cc.logger.Warnw("Invalid value precision specified, using default value",
			"key", configKeyValuePrecision,
			"invalidValue", cc.ValuePrecision,
			"defaultValue", defaultValuePrecision)

		cc.ValuePrecision = defaultValuePrecision
	}

	cc.InvertX = cc.userConfig.GetBool(configKeyInvertX)

	cc.ConnectionInfo.COMPort = cc.userConfig.GetString(configKeyCOMPort)

	cc.ConnectionInfo.BaudRate = cc.userConfig.GetInt(configKeyBaudRate)
	if cc.ConnectionInfo.BaudRate <= 0 {
		cc.logger.Warnw("Invalid baud rate specified, using default value",
			"key", configKeyBaudRate,
			"invalidValue", cc.ConnectionInfo.BaudRate,
			"defaultValue", defaultBaudRate)

		cc.ConnectionInfo.BaudRate = defaultBaudRate
	}

	cc.UDPPort = cc.userConfig.GetInt(configKeyUDPPort)
	if cc.UDPPort <= 0 || cc.UDPPort > 65535 {
		cc.logger.Warnw("Invalid UDP port specified, using default value",
			"key", configKeyUDPPort,
			"invalidValue", cc.UDPPort,
			"defaultValue", defaultUDPPort)

		cc.UDPPort = defaultUDPPort
	}

	cc.logger.Debug("Populated config fields from vipers")

	return nil
}

func (cc *CanonicalConfig) onConfigReloaded() {
	cc.logger.Debug("Notifying consumers about configuration reload")

	for _, consumer := range cc.reloadConsumers {
		consumer <- true
	}
}
