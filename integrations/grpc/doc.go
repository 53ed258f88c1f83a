// Package grpc provides gRPC server interceptors that run an
// authscheme.Middleware for every call.
//
// Incoming metadata is presented to the schemes as request headers, so the
// bearer, basic and cookie schemes work unchanged: "authorization" metadata
// is the Authorization header and "cookie" metadata the Cookie header.
//
// # Basic Usage
//
//	m, err := authscheme.New(
//	    authscheme.WithScheme(bearer.Register(bearerOpts)),
//	    authscheme.WithDefaultChallengeScheme(bearer.SchemeName),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	interceptor, err := authgrpc.New(m,
//	    authgrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	server := grpc.NewServer(
//	    grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	    grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	)
//
// # Challenges
//
// A challenge written by a scheme is returned as a status error whose code
// follows the HTTP status (401 and redirects are Unauthenticated, 403 is
// PermissionDenied). Response headers such as WWW-Authenticate are sent as
// lowercase header metadata.
//
// # Tickets
//
// Handlers read the ticket with GetTicket, GetPrincipal or HasTicket:
//
//	func (s *server) GetUser(ctx context.Context, req *pb.GetUserRequest) (*pb.User, error) {
//	    claims, err := authgrpc.GetPrincipal[*validator.ValidatedClaims](ctx)
//	    if err != nil {
//	        return nil, status.Error(codes.Internal, "failed to get claims")
//	    }
//	    return &pb.User{ID: claims.RegisteredClaims.Subject}, nil
//	}
package grpc
