package handler

import (
	"context"

	"google.golang.org/grpc"

	"github.com/dtroode/deltacargo-server/internal/model"
)

const (
	AuthServiceName   = "cargo.v1.Auth"
	TracksServiceName = "cargo.v1.Tracks"
	UsersServiceName  = "cargo.v1.Users"
)

// Full method names referenced by interceptors.
const (
	MethodRegister       = "/" + AuthServiceName + "/Register"
	MethodLogin          = "/" + AuthServiceName + "/Login"
	MethodChangePassword = "/" + AuthServiceName + "/ChangePassword"
	MethodSearch         = "/" + TracksServiceName + "/Search"
)

// AuthServer is the server API of the cargo.v1.Auth service.
type AuthServer interface {
	Register(context.Context, *RegisterRequest) (*UserMessage, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Me(context.Context, *Empty) (*UserMessage, error)
	ChangePassword(context.Context, *ChangePasswordRequest) (*StatusResponse, error)
}

// TracksServer is the server API of the cargo.v1.Tracks service.
type TracksServer interface {
	Search(context.Context, *TrackNumberRequest) (*TrackMessage, error)
	Claim(context.Context, *ClaimRequest) (*TrackMessage, error)
	ListOwned(context.Context, *ListOwnedRequest) (*TrackListResponse, error)
	Archive(context.Context, *TrackNumberRequest) (*StatusResponse, error)
	Unarchive(context.Context, *TrackNumberRequest) (*StatusResponse, error)
	UpsertRecord(context.Context, *UpsertRecordRequest) (*TrackMessage, error)
	UpdateStatus(context.Context, *UpdateStatusRequest) (*UpdateStatusResponse, error)
	Delete(context.Context, *TrackNumberRequest) (*StatusResponse, error)
	BatchUpdateStatus(context.Context, *BatchUpdateStatusRequest) (*BatchUpdateStatusResponse, error)
	Upload(context.Context, *UploadRequest) (*UploadResponse, error)
	DownloadManifest(context.Context, *ManifestRequest) (*ManifestResponse, error)
	Calendar(context.Context, *Empty) (*CalendarResponse, error)
	ScanValidate(context.Context, *ScanRequest) (*ScanValidateResponse, error)
	ScanDeliver(context.Context, *ScanRequest) (*ScanOutcomeResponse, error)
	ScanDelete(context.Context, *ScanRequest) (*ScanOutcomeResponse, error)
}

// UsersServer is the server API of the cargo.v1.Users service.
type UsersServer interface {
	Create(context.Context, *CreateUserRequest) (*UserMessage, error)
	List(context.Context, *Empty) (*UserListResponse, error)
	Delete(context.Context, *UserIDRequest) (*StatusResponse, error)
	ResetPassword(context.Context, *ResetPasswordRequest) (*PasswordResponse, error)
	GeneratePassword(context.Context, *UserIDRequest) (*PasswordResponse, error)
	SetRole(context.Context, *SetRoleRequest) (*StatusResponse, error)
	SetActive(context.Context, *SetActiveRequest) (*StatusResponse, error)
}

// unary builds a method descriptor that decodes Req and dispatches to fn
// through the server's interceptor chain.
func unary[S any, Req any, Resp any](service, name string, fn func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(S)
			if interceptor == nil {
				return fn(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return fn(s, ctx, req.(*Req))
			})
		},
	}
}

var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AuthServiceName, "Register", AuthServer.Register),
		unary(AuthServiceName, "Login", AuthServer.Login),
		unary(AuthServiceName, "Me", AuthServer.Me),
		unary(AuthServiceName, "ChangePassword", AuthServer.ChangePassword),
	},
	Metadata: "cargo/v1/auth",
}

var TracksServiceDesc = grpc.ServiceDesc{
	ServiceName: TracksServiceName,
	HandlerType: (*TracksServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(TracksServiceName, "Search", TracksServer.Search),
		unary(TracksServiceName, "Claim", TracksServer.Claim),
		unary(TracksServiceName, "ListOwned", TracksServer.ListOwned),
		unary(TracksServiceName, "Archive", TracksServer.Archive),
		unary(TracksServiceName, "Unarchive", TracksServer.Unarchive),
		unary(TracksServiceName, "UpsertRecord", TracksServer.UpsertRecord),
		unary(TracksServiceName, "UpdateStatus", TracksServer.UpdateStatus),
		unary(TracksServiceName, "Delete", TracksServer.Delete),
		unary(TracksServiceName, "BatchUpdateStatus", TracksServer.BatchUpdateStatus),
		unary(TracksServiceName, "Upload", TracksServer.Upload),
		unary(TracksServiceName, "DownloadManifest", TracksServer.DownloadManifest),
		unary(TracksServiceName, "Calendar", TracksServer.Calendar),
		unary(TracksServiceName, "ScanValidate", TracksServer.ScanValidate),
		unary(TracksServiceName, "ScanDeliver", TracksServer.ScanDeliver),
		unary(TracksServiceName, "ScanDelete", TracksServer.ScanDelete),
	},
	Metadata: "cargo/v1/tracks",
}

var UsersServiceDesc = grpc.ServiceDesc{
	ServiceName: UsersServiceName,
	HandlerType: (*UsersServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(UsersServiceName, "Create", UsersServer.Create),
		unary(UsersServiceName, "List", UsersServer.List),
		unary(UsersServiceName, "Delete", UsersServer.Delete),
		unary(UsersServiceName, "ResetPassword", UsersServer.ResetPassword),
		unary(UsersServiceName, "GeneratePassword", UsersServer.GeneratePassword),
		unary(UsersServiceName, "SetRole", UsersServer.SetRole),
		unary(UsersServiceName, "SetActive", UsersServer.SetActive),
	},
	Metadata: "cargo/v1/users",
}

// RegisterAuthServer registers srv on s.
func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&AuthServiceDesc, srv)
}

func RegisterTracksServer(s grpc.ServiceRegistrar, srv TracksServer) {
	s.RegisterService(&TracksServiceDesc, srv)
}

func RegisterUsersServer(s grpc.ServiceRegistrar, srv UsersServer) {
	s.RegisterService(&UsersServiceDesc, srv)
}

// principal returns the authenticated user placed in ctx by the auth interceptor.
func principal(ctx context.Context, cm model.ContextManager) (model.User, error) {
	user, ok := cm.GetPrincipalFromContext(ctx)
	if !ok {
		return model.User{}, handleError(model.ErrUnauthenticated)
	}
	return user, nil
}
