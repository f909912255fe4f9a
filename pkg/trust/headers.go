package trust

import (
	"errors"
	"net/http"
	"strings"
)

const (
	// HeaderGatewayAuth はGatewayで検証済みであることを示すヘッダーキー。
	HeaderGatewayAuth = "X-Gateway-Auth"
	// HeaderUserID は検証済みユーザーIDを伝播するヘッダーキー。
	HeaderUserID = "X-User-Id"
	// HeaderUserEmail は検証済みメールアドレスを伝播するヘッダーキー。
	HeaderUserEmail = "X-User-Email"
	// HeaderUserRoles は検証済みロールを伝播するヘッダーキー。
	HeaderUserRoles = "X-User-Roles"

	// GatewayAuthValidated はX-Gateway-Authヘッダーに設定される唯一の有効値。
	GatewayAuthValidated = "validated"
)

var (
	// ErrNotFromGateway はGatewayを経由していないリクエストを表す。
	ErrNotFromGateway = errors.New("gatewayを経由していないリクエストです")
	// ErrMissingIdentity は信頼ヘッダーにユーザー情報が欠けていることを表す。
	ErrMissingIdentity = errors.New("ユーザー情報ヘッダーがありません")
)

// Header は信頼ヘッダーの名前と値の組。
type Header struct {
	// Name はヘッダーキー。
	Name string
	// Value はヘッダー値。
	Value string
}

// Identity はGatewayが検証したトークンから取り出した身元情報。
// 信頼境界を越えた後、下流サービスはこの値のみを参照できる。
type Identity struct {
	// UserID はユーザーの一意識別子。
	UserID string
	// Email はユーザーのメールアドレス（トークンのsubject）。
	Email string
	// Roles はロール文字列。複数の場合はカンマ区切り。
	Roles string
}

// RoleList はロール文字列をカンマで分割して返す。空要素は除外する。
func (id Identity) RoleList() []string {
	var roles []string
	for _, r := range strings.Split(id.Roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

// HasRole は指定ロールを持つかどうかを大文字小文字を区別せずに判定する。
func (id Identity) HasRole(role string) bool {
	for _, r := range id.RoleList() {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// HeaderSet はGatewayが付与する信頼ヘッダーを固定の順序で返す。
func (id Identity) HeaderSet() []Header {
	return []Header{
		{Name: HeaderGatewayAuth, Value: GatewayAuthValidated},
		{Name: HeaderUserID, Value: id.UserID},
		{Name: HeaderUserEmail, Value: id.Email},
		{Name: HeaderUserRoles, Value: id.Roles},
	}
}

// Inject は信頼ヘッダーをhに設定する。既存の値は上書きされる。
func Inject(h http.Header, id Identity) {
	for _, hdr := range id.HeaderSet() {
		h.Set(hdr.Name, hdr.Value)
	}
}

// Strip はhから信頼ヘッダーをすべて削除する。
// クライアントが信頼ヘッダーを偽装してGatewayを通過することを防ぐ。
func Strip(h http.Header) {
	h.Del(HeaderGatewayAuth)
	h.Del(HeaderUserID)
	h.Del(HeaderUserEmail)
	h.Del(HeaderUserRoles)
}

// FromHeaders は信頼ヘッダーから身元情報を復元する。
// X-Gateway-Authがvalidatedでない場合はErrNotFromGateway、
// ユーザーIDまたはメールアドレスが空の場合はErrMissingIdentityを返す。
func FromHeaders(h http.Header) (Identity, error) {
	if h.Get(HeaderGatewayAuth) != GatewayAuthValidated {
		return Identity{}, ErrNotFromGateway
	}

	id := Identity{
		UserID: h.Get(HeaderUserID),
		Email:  h.Get(HeaderUserEmail),
		Roles:  h.Get(HeaderUserRoles),
	}
	if id.UserID == "" || id.Email == "" {
		return Identity{}, ErrMissingIdentity
	}
	return id, nil
}
