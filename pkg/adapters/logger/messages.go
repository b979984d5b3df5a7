package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Player (info)
		"Playing %s":                     "%s を再生中",
		"Playback %s: %d frames in %s":   "再生 %s: %d フレーム (%s)",
		"Saved %d frames":                "%d フレームを保存しました",
		"Output saved to %s":             "出力を %s に保存しました",
		"Summary saved to %s":            "サマリーを %s に保存しました",
		"Interrupted, shutting down...":  "中断されました。シャットダウン中...",
		"Interrupted, stopping playback": "中断されました。再生を停止します",
		"Failed to start playback: %s":   "再生を開始できませんでした: %s",
		"Failed to write summary: %s":    "サマリーの書き込みに失敗しました: %s",

		// Engine
		"Playback started with %d reader(s)":              "%d 個のリーダーで再生を開始しました",
		"Playback paused at frame %d":                     "フレーム %d で一時停止しました",
		"Playback resumed at frame %d":                    "フレーム %d から再開しました",
		"Playback completed after %d frames":              "%d フレームで再生が完了しました",
		"%s reader reached end of stream after %d frames": "%s リーダーが %d フレームでストリーム終端に達しました",
		"Failed to reset %s reader: %s":                   "%s リーダーのリセットに失敗しました: %s",
		"Failed to decode %s frame %d: %s":                "%s のフレーム %d のデコードに失敗しました: %s",

		// Refresh pump
		"Refresh pump started":               "リフレッシュポンプを開始しました",
		"Refresh pump stopped":               "リフレッシュポンプを停止しました",
		"Subscriber panicked on tick %d: %v": "ティック %d で購読者がパニックしました: %v",

		// MP4 reader
		"Decoding %s: %dx%d, %d samples": "%s をデコード中: %dx%d, %d サンプル",
		"Decoded %d frames from %s":      "%d フレームを %s からデコードしました",

		// Save stage
		"Saved frame %d":              "フレーム %d を保存しました",
		"Failed to save frame %d: %s": "フレーム %d の保存に失敗しました: %s",
	})
}
