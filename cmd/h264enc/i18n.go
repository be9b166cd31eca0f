// Package main provides localization for the h264enc CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Input":    "入力",
		"Output":   "出力先",
		"Encoding": "エンコード設定",
		"Pattern":  "テストパターン",
		"Debug":    "デバッグ",
		"Logging":  "ログ",

		// Root command
		"Encode frames into a raw H.264 elementary stream": "フレームをH.264エレメンタリストリームにエンコード",
		"h264enc converts RGB frames to I420 and encodes them as an Annex B H.264 stream with a keyframe every two seconds.": "h264encはRGBフレームをI420に変換し、2秒ごとにキーフレームを挿入したAnnex B形式のH.264ストリームとしてエンコードします。",

		// Commands
		"Encode a sequence of image files":             "画像ファイルの連番をエンコード",
		"Encode a synthetic test pattern":              "合成テストパターンをエンコード",
		"Print the NAL units and SPS of an H.264 file": "H.264ファイルのNALユニットとSPSを表示",
		"List available encoder engines":               "利用可能なエンコーダーエンジンを一覧表示",
		"Show version information":                     "バージョン情報を表示",
		"h264enc version %s":                           "h264enc バージョン %s",

		// Flags
		"YAML configuration file":                 "YAML設定ファイル",
		"Output .h264 file path":                  "出力.h264ファイルパス",
		"Encoder engine (auto, pcm, openh264)":    "エンコーダーエンジン（auto, pcm, openh264）",
		"Frame rate (default: 30)":                "フレームレート（デフォルト: 30）",
		"Frame width, even (default: from input)":  "フレーム幅、偶数（デフォルト: 入力から取得）",
		"Frame height, even (default: from input)": "フレーム高さ、偶数（デフォルト: 入力から取得）",
		"Let the pcm engine skip unchanged frames": "pcmエンジンで変化のないフレームをスキップ",
		"Number of frames (default: 90)":          "フレーム数（デフォルト: 90）",
		"Repeat each pattern step this many frames": "各パターンを繰り返すフレーム数",

		// Debug flags
		"Enable debug output":        "デバッグ出力を有効化",
		"Directory for debug output": "デバッグ出力のディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Runtime messages
		"Encoding %s to %s (%dx%d, %.2f fps)...": "%s を %s にエンコード中 (%dx%d, %.2f fps)...",
		"Output saved to %s":                     "出力を %s に保存しました",
		"Interrupted, shutting down...":          "中断されました。シャットダウン中...",

		// Error messages
		"At least one image argument is required": "画像引数が1つ以上必要です",
		"One file argument is required":           "ファイル引数が1つ必要です",

		// Inspect output
		"File: %s (%d bytes)":               "ファイル: %s (%d バイト)",
		"Codec: %s, profile %d, level %d":   "コーデック: %s, プロファイル %d, レベル %d",
		"Picture size: %dx%d":               "画像サイズ: %dx%d",
		"Slices: %d (%d IDR)":               "スライス: %d (IDR %d)",

		// Engines output
		"available":     "利用可能",
		"not available": "利用不可",

		// Summary output flag
		"Output execution summary to file (Markdown format)": "実行サマリーをファイルに出力（Markdown形式）",
		"Summary saved to %s":                                "サマリーを %s に保存しました",
		"Failed to write summary: %s":                        "サマリーの書き込みに失敗しました: %s",

		// Summary content
		"Encode Summary":    "エンコードサマリー",
		"Session":           "セッション",
		"Generated At":      "生成日時",
		"Settings":          "設定",
		"Stream":            "ストリーム",
		"Item":              "項目",
		"Value":             "値",
		"Engine":            "エンジン",
		"fallback":          "フォールバック",
		"Frame Size":        "フレームサイズ",
		"Frame Rate":        "フレームレート",
		"Keyframe Interval": "キーフレーム間隔",
		"frames":            "フレーム",
		"Frames":            "フレーム数",
		"Encoded Frames":    "エンコード済みフレーム",
		"Skipped Frames":    "スキップしたフレーム",
		"Keyframes":         "キーフレーム数",
		"Layers":            "レイヤー数",
		"Size":              "サイズ",
		"Duration":          "再生時間",
		"Average Bitrate":   "平均ビットレート",
	})
}
