package led

import (
	"log/slog"
	"os"
	"strings"
)

const deviceTreeModelPath = "/proc/device-tree/model"

// New creates an LED controller based on board detection.
// Falls back to a no-op controller when no LEDs are available.
func New(logger *slog.Logger) Controller {
	boardModel := detectBoard()

	logger.Info("detecting board for LED control", "board_model", boardModel)

	switch {
	case strings.Contains(boardModel, "Raspberry Pi"):
		logger.Info("detected Raspberry Pi, using sysfs LED controller")
		return newSysfs(map[string]string{
			"act": "ACT",
		})

	case strings.Contains(boardModel, "NanoPC-T6"):
		logger.Info("detected NanoPC-T6, using sysfs LED controller")
		return newSysfs(map[string]string{
			"user":   "usr_led",
			"system": "sys_led",
		})

	case strings.Contains(boardModel, "Orange Pi"):
		logger.Info("detected Orange Pi, using sysfs LED controller")
		return newSysfs(map[string]string{
			"blue":  "blue_led",
			"green": "green_led",
		})

	default:
		logger.Info("no LED support detected, using no-op controller", "board_model", boardModel)
		return newNoop(logger)
	}
}

// detectBoard reads the device tree model to identify the board.
func detectBoard() string {
	data, err := os.ReadFile(deviceTreeModelPath)
	if err != nil {
		return "unknown"
	}

	// Device tree model contains null bytes, trim them
	return strings.TrimRight(string(data), "\x00")
}
