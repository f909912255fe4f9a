// Package service は下流サービスのHTTPエンジンを組み立てる。
//
// 下流サービスはServiceインターフェースを実装し、NewEngineでのみエンジンを生成する。
// 保護ルートは必ずtrust.Requireを通過するグループに登録されるため、
// 信頼ヘッダーの検証を省略したまま保護ルートを公開することはできない。
package service
