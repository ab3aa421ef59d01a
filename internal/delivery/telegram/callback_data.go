package telegram

import (
	"strings"
)

// Callback action constants.
const (
	actionPractice = "practice"
	actionSkip     = "skip"
	actionStats    = "stats"
	actionLevel    = "level"
	actionReset    = "reset"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or "".
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	if data == "" {
		return callbackData{Raw: data}
	}

	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func buildPracticeCallback() string {
	return actionPractice
}

// buildSkipCallback builds the "don't know" answer for an item. Item ids
// may contain ":", so everything after the action is the id.
func buildSkipCallback(itemID string) string {
	return callbackData{Action: actionSkip, Params: []string{itemID}}.encode()
}

func skipItemID(cd callbackData) string {
	return strings.Join(cd.Params, ":")
}

func buildStatsCallback() string {
	return actionStats
}

func buildLevelCallback() string {
	return actionLevel
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}
