// Package task はtaskサービスの内部実装を提供する。
//
// すべてのAPIは信頼ヘッダーの検証を通過したリクエストのみを受け付け、
// Gatewayが付与した身元情報をタスクの担当者・作成者として扱う。
package task
