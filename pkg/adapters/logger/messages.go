package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting pipeline":               "パイプラインを開始します",
		"Pipeline completed successfully": "パイプラインが正常に完了しました",
		"Video encoded: %d bytes":         "動画エンコード完了: %d バイト",

		// Encode stage
		"Encoding %d frames at %.2f fps": "%d フレームを %.2f fps でエンコード中",
		"Encoding completed: %d frames":  "エンコードが完了しました: %d フレーム",

		// Engine selection
		"openh264 unavailable, falling back to pcm: %v": "openh264 が利用できないため pcm にフォールバックします: %v",

		// Session lifecycle
		"Session ready: %dx%d at %.2f fps, keyframe every %d frames": "セッション準備完了: %dx%d, %.2f fps, %d フレームごとにキーフレーム",
		"Session closed: %d frames, %d keyframes, %d bytes":          "セッション終了: %d フレーム, %d キーフレーム, %d バイト",

		// Session per-frame (debug)
		"Forcing keyframe at frame %d":              "フレーム %d でキーフレームを強制",
		"Frame %d skipped by engine":                "フレーム %d はエンジンによりスキップされました",
		"Frame %d at %d ms: %s, %d layers, %d bytes": "フレーム %d (%d ms): %s, %d レイヤー, %d バイト",

		// Warnings
		"Engine rejected frame %d: %v":         "エンジンがフレーム %d を拒否しました: %v",
		"Failed to save debug frame %d: %v":    "デバッグフレーム %d の保存に失敗しました: %v",
		"Failed to save debug layer %d/%d: %v": "デバッグレイヤー %d/%d の保存に失敗しました: %v",
		"Failed to save session.json: %v":      "session.json の保存に失敗しました: %v",

		// Errors
		"Engine initialization failed: %v": "エンジンの初期化に失敗しました: %v",
		"Failed to encode video: %s":       "動画のエンコードに失敗しました: %s",
		"Failed to write output: %s":       "出力の書き込みに失敗しました: %s",
	})
}
