// Package user はuserサービスの内部実装を提供する。
//
// メールアドレスとパスワードによるログインでアクセストークンを発行する。
// パスワードはbcryptでハッシュ化して保存する。ログイン以外のAPIは
// Gatewayが付与した信頼ヘッダーの身元情報でのみ利用者を識別する。
package user
