// Package main provides localization for the kitsune CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Input":    "入力",
		"Timing":   "タイミング",
		"Output":   "出力",
		"Preview":  "プレビュー",
		"Decoding": "デコード",
		"Logging":  "ログ",

		// Commands
		"Play Kitsunebi alpha videos paced to a refresh clock":    "リフレッシュクロックに合わせてKitsunebiアルファ動画を再生",
		"Play a video or image sequence and write out the frames": "動画または連番画像を再生し、フレームを書き出す",
		"Show the video track of an MP4 file":                     "MP4ファイルの映像トラックを表示",

		// Input flags
		"Color video or image sequence directory":       "カラー動画または連番画像のディレクトリ",
		"Alpha matte video or image sequence directory": "アルファマット動画または連番画像のディレクトリ",
		"YAML configuration file":                       "YAML設定ファイル",

		// Timing flags
		"Decode rate in frames per second (default: 30)":    "デコードのフレームレート（デフォルト: 30）",
		"Refresh rate of the playback clock (default: 60)":  "再生クロックのリフレッシュレート（デフォルト: 60）",
		"Stop after this many frames (0 = play to the end)": "指定フレーム数で停止（0 = 最後まで再生）",

		// Output flags
		"Directory for rendered frames (omit to discard)":    "描画したフレームの出力先（省略時は破棄）",
		"Output preset (export, preview)":                    "出力プリセット（export, preview）",
		"Frame image format (png, jpg)":                      "フレーム画像の形式（png, jpg）",
		"JPEG quality (0-100)":                               "JPEG品質（0-100）",
		"Render workers (0 = number of CPUs)":                "描画ワーカー数（0 = CPU数）",
		"Write a playback summary to file (.md or .txt)":     "再生サマリーをファイルに出力（.md または .txt）",

		// Preview flags
		"Output width in pixels":                         "出力幅（ピクセル）",
		"Output height in pixels":                        "出力高さ（ピクセル）",
		"Show transparency over a checkerboard":          "透過部分を市松模様の上に表示",
		"Stamp the frame number on each frame":           "各フレームにフレーム番号を表示",
		"Show base, matte and result next to each other": "ベース、マット、合成結果を並べて表示",

		// Decoding flags
		"Path to the ffmpeg executable": "ffmpeg実行ファイルのパス",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Error messages
		"A base video is required (--base or first argument)": "ベース動画が必要です（--base または最初の引数）",
		"A file argument is required":                         "ファイル引数が必要です",
		"Failed to load config: %s":                           "設定の読み込みに失敗しました: %s",
		"Invalid config: %s":                                  "設定が不正です: %s",
		"Failed to probe %s: %s":                              "%s を解析できませんでした: %s",
		"Playback interrupted":                                "再生が中断されました",

		// Probe output
		"Codec: %s":                                "コーデック: %s",
		"Size: %dx%d":                              "サイズ: %dx%d",
		"Samples: %d (timescale %d)":               "サンプル数: %d（タイムスケール %d）",
		"Layout: fragmented":                       "構造: フラグメント",
		"Layout: progressive":                      "構造: プログレッシブ",
		"Warning: only H.264 tracks can be played": "警告: 再生できるのはH.264トラックのみです",

		// Summary content
		"Playback Summary":    "再生サマリー",
		"Generated":           "生成日時",
		"Results":             "実行結果",
		"Source":              "入力",
		"Settings":            "設定",
		"Item":                "項目",
		"Value":               "値",
		"Outcome":             "結果",
		"Frames":              "フレーム数",
		"Elapsed":             "経過時間",
		"Effective Rate":      "実効レート",
		"Error":               "エラー",
		"Mode":                "モード",
		"Single":              "シングル",
		"Dual (base + alpha)": "デュアル（ベース + アルファ）",
		"Base":                "ベース",
		"Alpha":               "アルファ",
		"Codec":               "コーデック",
		"Image sequence":      "連番画像",
		"Frame Size":          "フレームサイズ",
		"Target Rate":         "目標レート",
		"Refresh Rate":        "リフレッシュレート",
		"Format":              "形式",
		"Saved Frames":        "保存フレーム数",
		"None":                "なし",
		"Generated by":        "生成:",
		"frames":              "フレーム",
		"saved":               "保存",

		// Outcomes
		"completed": "完了",
		"failed":    "失敗",
		"stopped":   "停止",
		"canceled":  "中断",
	})
}
